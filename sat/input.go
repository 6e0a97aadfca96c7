package sat

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	errNoAnswer    = errors.New("no answer in confirmation")
	errTextTooLong = errors.New("text too long for a terminal response")
)

func inkeyAlphabet(p *GetInkeyParams) Alphabet {
	if p.UCS2 {
		return AlphabetUcs2
	}
	return Alphabet8Bit
}

func inputAlphabet(p *GetInputParams) Alphabet {
	switch {
	case p.UCS2:
		return AlphabetUcs2
	case p.Packed:
		return AlphabetGsm7
	}
	return Alphabet8Bit
}

// answerText encodes the user's entry into the response, or answers with
// the result for a non-Yes confirmation.
func answerText(m *Manager, e *Entry, c ConfirmType, text func() (*Text, error)) {
	if c != ConfirmYes {
		m.finish(e, m.response(e, m.userResult(c)))
		return
	}
	t, err := text()
	if err == nil && len(t.Data) >= maxValueLength {
		err = errTextTooLong
	}
	if err != nil {
		m.log.Warn("encoding user entry", zap.Int("id", e.ID), zap.Error(err))
		tr := m.response(e, MeUnableToProcessCommand)
		tr.MeProblem = MeNoSpecificCause
		m.finish(e, tr)
		return
	}
	tr := m.response(e, m.success(&e.Command))
	tr.Text = t
	m.finish(e, tr)
}

type getInkeyHandler struct{ baseHandler }

func (getInkeyHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*GetInkeyParams)
	if p.Text == "" {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	n, tr := m.accept(cmd, p.Text, false)
	if tr != nil {
		return nil, tr
	}
	n.InputType = p.InputType
	n.Alphabet = inkeyAlphabet(p)
	n.HelpAvailable = p.HelpAvailable
	n.Duration = p.Duration.Milliseconds()
	n.UserResponseRequired = true
	return n, nil
}

func (getInkeyHandler) confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error {
	p := e.Command.Params.(*GetInkeyParams)
	answerText(m, e, c, func() (*Text, error) {
		if p.InputType == InputYesNo {
			if len(data) == 0 {
				return nil, errNoAnswer
			}
			var v byte
			if data[0] != 0 && data[0] != '0' && data[0] != 'n' && data[0] != 'N' {
				v = 0x01
			}
			return &Text{DCS: Alphabet8Bit.DCS(), Data: []byte{v}}, nil
		}
		return EncodeText(inkeyAlphabet(p), string(data))
	})
	return nil
}

type getInputHandler struct{ baseHandler }

func (getInputHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*GetInputParams)
	if p.MinLength > p.MaxLength {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	n, tr := m.accept(cmd, p.Text, false)
	if tr != nil {
		return nil, tr
	}
	n.InputType = p.InputType
	n.Alphabet = inputAlphabet(p)
	n.HideInput = p.HideInput
	n.HelpAvailable = p.HelpAvailable
	n.MinLength = p.MinLength
	n.MaxLength = p.MaxLength
	n.DefaultText = p.DefaultText
	n.UserResponseRequired = true
	return n, nil
}

func (getInputHandler) confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error {
	p := e.Command.Params.(*GetInputParams)
	answerText(m, e, c, func() (*Text, error) {
		return EncodeText(inputAlphabet(p), string(data))
	})
	return nil
}
