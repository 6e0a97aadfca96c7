// Service carrying out SEND SHORT MESSAGE for the SIM toolkit via a GSM
// modem/USB dongle, in text mode.
//
// Text messages received are passed on as queries, so the sat service can
// be asked for its status by text; answers addressed to "sms" are texted
// back.
package sms

import (
	"path/filepath"

	"github.com/barnybug/gogsmmodem"
	"github.com/pkg/errors"
	"github.com/tarm/serial"
	"go.uber.org/zap"

	"github.com/barnybug/gosat/pubsub"
	"github.com/barnybug/gosat/sat"
	"github.com/barnybug/gosat/services"
)

type Sender interface {
	SendMessage(telephone, body string) error
}

func expandDevName() string {
	matches, _ := filepath.Glob(services.Config.SMS.Device)
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}

// Service sms
type Service struct {
	// Sender overrides the modem.
	Sender Sender

	modem *gogsmmodem.Modem
}

func (self *Service) ID() string {
	return "sms"
}

func (self *Service) Init() error {
	if self.Sender != nil {
		return nil
	}
	devname := expandDevName()
	if devname == "" {
		return errors.Errorf("sms device not found: %s", services.Config.SMS.Device)
	}
	conf := serial.Config{Name: devname, Baud: services.Config.SMS.Baud}
	modem, err := gogsmmodem.Open(&conf, false)
	if err != nil {
		return errors.Wrapf(err, "opening %s", devname)
	}
	self.modem = modem
	self.Sender = modem
	zap.S().Infow("connected", "device", devname)

	zap.S().Info("checking message storage for unread")
	msgs, err := modem.ListMessages("ALL")
	if err == nil {
		for _, msg := range *msgs {
			if msg.Status == "REC UNREAD" {
				received(msg.Telephone, msg.Body)
			}
			// delete - any unread have been read
			modem.DeleteMessage(msg.Index)
		}
	}
	return nil
}

func received(telephone, body string) {
	zap.S().Infow("message", "from", telephone, "body", body)
	services.SendQuery(body, "sms", telephone, "alert")
}

// dispatch sends the short message of a SEND SHORT MESSAGE command and
// reports the outcome.
func (self *Service) dispatch(d *sat.Dispatch) {
	p, ok := d.Command.Params.(*sat.SendSmsParams)
	if !ok {
		return
	}
	fields := pubsub.Fields{
		"id":    d.CommandID,
		"type":  sat.SendSms.String(),
		"owner": d.Command.Owner,
	}
	switch {
	case p.Destination == "" || p.Body == "":
		// raw TPDUs need PDU mode
		fields["outcome"] = "beyond_capabilities"
	default:
		zap.S().Infow("sending", "to", p.Destination)
		if err := self.Sender.SendMessage(p.Destination, p.Body); err != nil {
			zap.S().Warnw("send failed", "to", p.Destination, "error", err)
			fields["outcome"] = "sms_rp_error"
		} else {
			fields["outcome"] = "success"
		}
	}
	services.Send("sat/exec", fields)
}

func (self *Service) handle(ev *pubsub.Event) error {
	switch ev.Topic {
	case "sat/dispatch":
		var d sat.Dispatch
		if err := ev.Decode(&d); err != nil {
			return err
		}
		self.dispatch(&d)
	case "alert":
		if ev.StringField("target") != "sms" || ev.StringField("remote") == "" {
			return nil
		}
		return self.Sender.SendMessage(ev.StringField("remote"), ev.StringField("message"))
	}
	return nil
}

func (self *Service) Run() error {
	events := services.Subscriber.Subscribe(pubsub.Exacts("sat/dispatch", "alert")...)
	var oob chan gogsmmodem.Packet
	if self.modem != nil {
		oob = self.modem.OOB
	}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := self.handle(ev); err != nil {
				zap.S().Warnw("handling event", "topic", ev.Topic, "error", err)
			}

		case p := <-oob:
			zap.S().Debugw("received", "packet", p)
			switch p := p.(type) {
			case gogsmmodem.MessageNotification:
				msg, err := self.modem.GetMessage(p.Index)
				if err == nil {
					received(msg.Telephone, msg.Body)
					self.modem.DeleteMessage(p.Index)
				}
			}
		}
	}
}
