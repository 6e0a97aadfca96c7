package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barnybug/gosat/services"
	"github.com/barnybug/gosat/services/modem"
	"github.com/barnybug/gosat/services/sms"
	"github.com/barnybug/gosat/services/toolkit"
	"github.com/barnybug/gosat/services/watchdog"
)

var debug bool

func registerServices() {
	services.Register(&toolkit.Service{})
	services.Register(&modem.Service{})
	services.Register(&sms.Service{})
	services.Register(&watchdog.Service{})
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gosat",
		Short: "SIM Application Toolkit mediation",
		Long: `gosat relays proactive commands from a modem's SIM toolkit to the
applications that show and carry them out, and their answers back to the SIM.

Services and clients talk over MQTT (endpoints.mqtt.broker or GOSAT_MQTT).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := services.SetupLogging(debug); err != nil {
				return err
			}
			return services.SetupConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			services.Shutdown()
		},
	}
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Debug logging")
	root.PersistentFlags().StringVar(&owner, "owner", "cp0", "Modem the command is for")

	root.AddCommand(
		runCmd(),
		queryCmd(),
		confirmCmd(),
		displayCmd(),
		eventCmd(),
		menuCmd(),
		resetCmd(),
	)
	return root
}

func main() {
	registerServices()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
