package toolkit

import "github.com/barnybug/gosat/pubsub"

// busyState follows the call and ss events published by the telephony
// services.
type busyState struct {
	call bool
	ss   bool
	ussd bool
}

func (b *busyState) InCall() bool   { return b.call }
func (b *busyState) SsBusy() bool   { return b.ss }
func (b *busyState) UssdBusy() bool { return b.ussd }

func (b *busyState) update(ev *pubsub.Event) {
	active := ev.State() == "active"
	switch ev.Topic {
	case "call":
		b.call = active
	case "ss":
		if ev.StringField("kind") == "ussd" {
			b.ussd = active
		} else {
			b.ss = active
		}
	}
}
