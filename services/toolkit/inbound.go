package toolkit

import (
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/barnybug/gosat/pubsub"
	"github.com/barnybug/gosat/sat"
)

// Inbound topics.
const (
	TopicCommand = "sat/command"
	TopicConfirm = "sat/confirm"
	TopicExec    = "sat/exec"
	TopicDisplay = "sat/display"
	TopicEvent   = "sat/event"
	TopicMenu    = "sat/menu"
	TopicReset   = "sat/reset"
	TopicEnd     = "sat/end"
)

var Topics = []string{
	TopicCommand, TopicConfirm, TopicExec, TopicDisplay, TopicEvent,
	TopicMenu, TopicReset, TopicEnd, "call", "ss",
}

type confirmMsg struct {
	ID      int             `json:"id"`
	Confirm sat.ConfirmType `json:"confirm"`
	// Data is hex; Text is taken as typed.
	Data string `json:"data"`
	Text string `json:"text"`
}

func (c *confirmMsg) bytes() ([]byte, error) {
	if c.Text != "" {
		return []byte(c.Text), nil
	}
	b, err := hex.DecodeString(c.Data)
	return b, errors.Wrap(err, "confirm data")
}

type execMsg struct {
	sat.ExecResult
	ID   int             `json:"id"`
	Type sat.CommandType `json:"type"`
	Data string          `json:"data"`
}

func (e *execMsg) result() (sat.ExecResult, error) {
	r := e.ExecResult
	b, err := hex.DecodeString(e.Data)
	if err != nil {
		return r, errors.Wrap(err, "exec data")
	}
	if len(b) > 0 {
		r.Data = b
	}
	return r, nil
}

type displayMsg struct {
	ID        int  `json:"id"`
	Displayed bool `json:"displayed"`
}

type eventMsg struct {
	sat.EventPayload
	Owner string        `json:"owner"`
	Event sat.EventType `json:"event"`
	Src   sat.Device    `json:"src"`
	Dest  sat.Device    `json:"dest"`
}

type menuMsg struct {
	Owner string `json:"owner"`
	Item  byte   `json:"item"`
	Help  bool   `json:"help"`
}

// decodeCommand decodes a sat/command event. When only the params are
// malformed the header is kept and the params replaced with
// UnsupportedParams, which the manager answers as data not understood.
func decodeCommand(ev *pubsub.Event) (cmd sat.Command, malformed bool, err error) {
	if err = ev.Decode(&cmd); err == nil {
		return cmd, false, nil
	}
	var hdr sat.Header
	if herr := ev.Decode(&hdr); herr != nil {
		return cmd, true, herr
	}
	return sat.Command{Header: hdr, Params: &sat.UnsupportedParams{}}, true, nil
}
