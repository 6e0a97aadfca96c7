// Service connecting the SAT service to a modem's SIM Application Toolkit
// over AT commands (3GPP TS 27.007 +CUSAT).
//
// Terminal responses and envelopes published by the sat service are written
// to the modem with AT+CUSATT and AT+CUSATE. Proactive commands reported with
// +CUSATP are published on modem/proactive for decoding. Calls, DTMF, SS and
// USSD dispatched by the sat service are carried out here and their outcome
// reported on sat/exec.
package modem

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
	"go.uber.org/zap"

	"github.com/barnybug/gosat/pubsub"
	"github.com/barnybug/gosat/sat"
	"github.com/barnybug/gosat/services"
)

const TopicProactive = "modem/proactive"

var initCommands = []string{"ATE0", "AT+CMEE=1", "AT+CUSATA=1"}

// Service modem
type Service struct {
	// Port overrides the configured serial device.
	Port *Port

	owner       string
	ussdPending int
}

func (self *Service) ID() string {
	return "modem"
}

func expandDevName(device string) string {
	matches, _ := filepath.Glob(device)
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}

func (self *Service) Init() error {
	conf := services.Config.Modem
	self.owner = conf.Owner
	self.ussdPending = -1
	if self.Port == nil {
		devname := expandDevName(conf.Device)
		if devname == "" {
			return errors.Errorf("modem device not found: %s", conf.Device)
		}
		port, err := OpenPort(&serial.Config{Name: devname, Baud: conf.Baud})
		if err != nil {
			return errors.Wrapf(err, "opening %s", devname)
		}
		self.Port = NewPort(port)
		zap.S().Infow("connected", "device", devname)
	}
	for _, cmd := range initCommands {
		if _, err := self.Port.Send(cmd); err != nil {
			return err
		}
	}
	// whatever the sat service held for this modem is now stale
	services.Send("sat/reset", pubsub.Fields{"owner": self.owner})
	return nil
}

func (self *Service) Run() error {
	events := services.Subscriber.Subscribe(pubsub.Exacts("sat/response", "sat/envelope", "sat/dispatch")...)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Owner() != "" && ev.Owner() != self.owner {
				continue
			}
			if err := self.handle(ev); err != nil {
				zap.S().Warnw("handling event", "topic", ev.Topic, "error", err)
			}
		case line, ok := <-self.Port.OOB:
			if !ok {
				return errors.New("modem disconnected")
			}
			self.unsolicited(line)
		}
	}
}

func (self *Service) handle(ev *pubsub.Event) error {
	switch ev.Topic {
	case "sat/response":
		_, err := self.Port.Send(fmt.Sprintf(`AT+CUSATT="%s"`, strings.ToUpper(ev.StringField("tlv"))))
		return err
	case "sat/envelope":
		_, err := self.Port.Send(fmt.Sprintf(`AT+CUSATE="%s"`, strings.ToUpper(ev.StringField("tlv"))))
		return err
	case "sat/dispatch":
		var d sat.Dispatch
		if err := ev.Decode(&d); err != nil {
			return err
		}
		if d.Command.Owner != "" && d.Command.Owner != self.owner {
			return nil
		}
		self.dispatch(&d)
	}
	return nil
}

func (self *Service) dispatch(d *sat.Dispatch) {
	switch p := d.Command.Params.(type) {
	case *sat.SetupCallParams:
		if _, err := self.Port.Send("ATD" + p.Number + ";"); err != nil {
			self.exec(d, meUnable(err))
			return
		}
		services.Send("call", pubsub.Fields{"owner": self.owner, "state": "active"})
		self.exec(d, pubsub.Fields{"outcome": "success"})
	case *sat.SendDtmfParams:
		_, err := self.Port.Send(fmt.Sprintf(`AT+VTS="%s"`, p.Dtmf))
		if err != nil {
			self.exec(d, meUnable(err))
			return
		}
		self.exec(d, pubsub.Fields{"outcome": "success"})
	case *sat.SendSsParams:
		// supplementary service strings are dialled
		if _, err := self.Port.Send("ATD" + p.SsString + ";"); err != nil {
			self.exec(d, pubsub.Fields{"outcome": "ss_error"})
			return
		}
		self.exec(d, pubsub.Fields{"outcome": "success"})
	case *sat.SendUssdParams:
		if _, err := self.Port.Send(fmt.Sprintf(`AT+CUSD=1,"%s",%d`, p.Ussd, p.DCS)); err != nil {
			self.exec(d, pubsub.Fields{"outcome": "ussd_error"})
			return
		}
		self.ussdPending = d.CommandID
		services.Send("ss", pubsub.Fields{"owner": self.owner, "kind": "ussd", "state": "active"})
	}
}

func meUnable(err error) pubsub.Fields {
	zap.S().Warnw("modem command failed", "error", err)
	return pubsub.Fields{"outcome": "me_unable"}
}

func (self *Service) exec(d *sat.Dispatch, fields pubsub.Fields) {
	fields["id"] = d.CommandID
	fields["type"] = d.Command.Type.String()
	fields["owner"] = self.owner
	services.Send("sat/exec", fields)
}

var reCusd = regexp.MustCompile(`^\+CUSD:\s*(\d)(?:,"([^"]*)"(?:,(\d+))?)?`)

func (self *Service) unsolicited(line string) {
	zap.S().Debugw("unsolicited", "line", line)
	switch {
	case strings.HasPrefix(line, "+CUSATP:"):
		self.proactive(strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "+CUSATP:")), `"`))
	case strings.HasPrefix(line, "+CUSATEND"):
		services.Send("sat/end", pubsub.Fields{"owner": self.owner})
	case strings.HasPrefix(line, "+CUSD:"):
		self.ussd(line)
	case line == "NO CARRIER":
		services.Send("call", pubsub.Fields{"owner": self.owner, "state": "idle"})
	}
}

// proactive publishes a proactive command as reported by the modem, with
// the command details read out for routing.
func (self *Service) proactive(tlv string) {
	b, err := hex.DecodeString(tlv)
	if err != nil {
		zap.S().Warnw("bad proactive command", "tlv", tlv, "error", err)
		return
	}
	fields := pubsub.Fields{"owner": self.owner, "tlv": strings.ToLower(tlv)}
	if details := commandDetails(b); details != nil {
		fields["number"] = int(details[0])
		fields["type"] = sat.CommandType(details[1]).String()
		fields["qualifier"] = int(details[2])
	}
	services.Send(TopicProactive, fields)
}

// commandDetails finds the command details value in a proactive command.
func commandDetails(b []byte) []byte {
	if len(b) < 2 || b[0] != 0xd0 {
		return nil
	}
	b = b[1:]
	if b[0] == 0x81 {
		b = b[1:]
	}
	if len(b) < 1 {
		return nil
	}
	b = b[1:]
	if len(b) >= 5 && b[0]&0x7f == 0x01 && b[1] == 0x03 {
		return b[2:5]
	}
	return nil
}

func (self *Service) ussd(line string) {
	m := reCusd.FindStringSubmatch(line)
	if m == nil || self.ussdPending < 0 {
		return
	}
	id := self.ussdPending
	self.ussdPending = -1
	services.Send("ss", pubsub.Fields{"owner": self.owner, "kind": "ussd", "state": "idle"})

	fields := pubsub.Fields{"id": id, "type": sat.SendUssd.String(), "owner": self.owner}
	switch m[1] {
	case "0", "1":
		dcs, _ := strconv.Atoi(m[3])
		text, err := sat.EncodeText(sat.AlphabetFromCbsDCS(byte(dcs)), m[2])
		if err != nil {
			zap.S().Warnw("encoding ussd reply", "error", err)
			fields["outcome"] = "me_unable"
			break
		}
		fields["outcome"] = "success"
		fields["data"] = hex.EncodeToString(text.Data)
		fields["dcs"] = dcs
	case "2":
		fields["outcome"] = "network_unable"
	default:
		fields["outcome"] = "ussd_error"
	}
	services.Send("sat/exec", fields)
}
