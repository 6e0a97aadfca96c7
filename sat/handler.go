package sat

import (
	"github.com/pkg/errors"
)

// handler implements one command family: validation and notification at
// build time, then the three answers that can settle a stored command.
type handler interface {
	build(m *Manager, cmd *Command) (*Notification, *TerminalResponse)
	confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error
	exec(m *Manager, e *Entry, r *ExecResult) error
	displayed(m *Manager, e *Entry) error
}

func newHandlers() map[CommandType]handler {
	return map[CommandType]handler{
		DisplayText:          displayTextHandler{},
		SetupIdleModeText:    idleTextHandler{},
		SetupMenu:            setupMenuHandler{},
		SelectItem:           selectItemHandler{},
		GetInkey:             getInkeyHandler{},
		GetInput:             getInputHandler{},
		PlayTone:             playToneHandler{},
		SetupCall:            setupCallHandler{},
		SendDtmf:             sendDtmfHandler{},
		SendSs:               sendSsHandler{},
		SendUssd:             sendUssdHandler{},
		SendSms:              sendSmsHandler{},
		LaunchBrowser:        launchBrowserHandler{},
		Refresh:              refreshHandler{},
		MoreTime:             moreTimeHandler{},
		ProvideLocalInfo:     localInfoHandler{},
		LanguageNotification: languageHandler{},
		SetupEventList:       eventListHandler{},
		OpenChannel:          openChannelHandler{},
		CloseChannel:         closeChannelHandler{},
		ReceiveData:          receiveDataHandler{},
		SendData:             sendDataHandler{},
		GetChannelStatus:     channelStatusHandler{},
	}
}

var errNotStored = errors.New("command is answered synchronously")

// baseHandler settles a command on the user's answer and treats an
// execution result with the common outcome table.
type baseHandler struct{}

func (baseHandler) confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error {
	var tr *TerminalResponse
	if c == ConfirmYes {
		tr = m.response(e, m.success(&e.Command))
	} else {
		tr = m.response(e, m.userResult(c))
	}
	m.finish(e, tr)
	return nil
}

func (baseHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	tr := m.response(e, Success)
	m.execResult(e, tr, r)
	m.finish(e, tr)
	return nil
}

func (baseHandler) displayed(m *Manager, e *Entry) error {
	return nil
}

// respondOnDisplay settles a command with success once its notification
// has been shown.
type respondOnDisplay struct{ baseHandler }

func (respondOnDisplay) displayed(m *Manager, e *Entry) error {
	m.finish(e, m.response(e, m.success(&e.Command)))
	return nil
}

// dispatchOnDisplay hands the command to its executor once shown. The
// user may still abort it before the executor answers.
type dispatchOnDisplay struct{ baseHandler }

func (dispatchOnDisplay) displayed(m *Manager, e *Entry) error {
	return m.dispatch(e)
}

func (dispatchOnDisplay) confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error {
	if c == ConfirmYes {
		return m.dispatch(e)
	}
	m.finish(e, m.response(e, m.userResult(c)))
	return nil
}

// dispatchOnYes waits for the user to accept before handing the command to
// its executor.
type dispatchOnYes struct{ baseHandler }

func (dispatchOnYes) confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error {
	switch c {
	case ConfirmYes:
		return m.dispatch(e)
	case ConfirmNoOrCancel:
		m.finish(e, m.response(e, UserDidNotAcceptProactiveCommand))
		return nil
	}
	m.finish(e, m.response(e, m.userResult(c)))
	return nil
}

// synchronous commands are never stored.
type synchronous struct{}

func (synchronous) confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error {
	return errNotStored
}

func (synchronous) exec(m *Manager, e *Entry, r *ExecResult) error {
	return errNotStored
}

func (synchronous) displayed(m *Manager, e *Entry) error {
	return errNotStored
}

// alpha returns the alpha identifier text and whether the user should see
// anything at all.
func alpha(a *string) (string, bool) {
	if a == nil {
		return "", false
	}
	return *a, true
}
