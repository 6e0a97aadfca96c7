package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/barnybug/gosat/pubsub"
	"github.com/barnybug/gosat/sat"
	"github.com/barnybug/gosat/services"
	"github.com/barnybug/gosat/util"
)

var owner string

// connect joins the broker the services run on.
func connect() error {
	if services.Config.Endpoints.Mqtt.Broker == "" {
		return errors.New("no broker configured: set endpoints.mqtt.broker or GOSAT_MQTT")
	}
	return services.SetupBroker()
}

func publish(topic string, fields pubsub.Fields) error {
	if err := connect(); err != nil {
		return err
	}
	services.Send(topic, fields)
	fmt.Printf("Sent %s\n", topic)
	return nil
}

func queryCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "query <query>...",
		Short: "Query services",
		Long: `Query running services, eg:

  gosat query status      commands awaiting a response
  gosat query sat/events  events enabled by the SIM`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(); err != nil {
				return err
			}
			events := services.Query(strings.Join(args, " "), timeout)
			if len(events) == 0 {
				fmt.Println("No response")
			}
			for _, ev := range events {
				message := ev.StringField("message")
				if strings.Contains(message, "\n") {
					fmt.Printf("\x1b[32;1m%s\x1b[0m\n%s\n", ev.StringField("source"), message)
				} else {
					fmt.Printf("\x1b[32;1m%s\x1b[0m %s\n", ev.StringField("source"), message)
				}
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Second, "Time to wait for answers")
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, errors.Errorf("bad command id: %s", s)
	}
	return id, nil
}

// confirmFields builds a sat/confirm event: id, answer and optional text.
func confirmFields(args []string, data string) (pubsub.Fields, error) {
	id, err := parseID(args[0])
	if err != nil {
		return nil, err
	}
	c, err := sat.ParseConfirmType(args[1])
	if err != nil {
		return nil, err
	}
	fields := pubsub.Fields{"id": id, "confirm": c.String()}
	if len(args) > 2 {
		fields["text"] = strings.Join(args[2:], " ")
	}
	if data != "" {
		if _, err := hex.DecodeString(data); err != nil {
			return nil, errors.Wrap(err, "data must be hex")
		}
		fields["data"] = data
	}
	return fields, nil
}

func confirmCmd() *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "confirm <id> <yes|no|help|timeout|end> [text]",
		Short: "Answer a prompt as the user",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := confirmFields(args, data)
			if err != nil {
				return err
			}
			return publish("sat/confirm", fields)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "Raw answer, hex (eg item id 02)")
	return cmd
}

func displayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "display <id> <shown|failed>",
		Short: "Report whether a notification was shown",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var displayed bool
			switch args[1] {
			case "shown", "yes", "1":
				displayed = true
			case "failed", "no", "0":
			default:
				return errors.Errorf("expected shown or failed, got %s", args[1])
			}
			return publish("sat/display", pubsub.Fields{"id": id, "displayed": displayed})
		},
	}
}

// eventFields builds a sat/event from "<event> key=value...".
func eventFields(args []string) (pubsub.Fields, error) {
	name, fields := util.ParseArgs(args)
	e, err := sat.ParseEventType(name)
	if err != nil {
		return nil, err
	}
	fields["event"] = e.String()
	if _, ok := fields["owner"]; !ok {
		fields["owner"] = owner
	}
	return fields, nil
}

func eventCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "event <event> [key=value]...",
		Short: "Report a terminal event to the SIM",
		Long: `Report a terminal event, delivered if the SIM enabled it, eg:

  gosat event user_activity
  gosat event language_selection language=de
  gosat event idle_screen_available owner=cp1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := eventFields(args)
			if err != nil {
				return err
			}
			return publish("sat/event", fields)
		},
	}
}

func menuCmd() *cobra.Command {
	var help bool
	cmd := &cobra.Command{
		Use:   "menu <item>",
		Short: "Select an item from the main menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return errors.Errorf("bad item: %s", args[0])
			}
			return publish("sat/menu", pubsub.Fields{"owner": owner, "item": item, "help": help})
		},
	}
	cmd.Flags().BoolVar(&help, "help-request", false, "Ask for help on the item")
	return cmd
}

func resetCmd() *cobra.Command {
	var end bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the commands held for a modem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := "sat/reset"
			if end {
				topic = "sat/end"
			}
			return publish(topic, pubsub.Fields{"owner": owner})
		},
	}
	cmd.Flags().BoolVar(&end, "end", false, "End the proactive session instead")
	return cmd
}
