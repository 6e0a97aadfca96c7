package sat

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrNoMainMenu = errors.New("no main menu installed")

func validItems(items []Item) Result {
	if len(items) == 0 {
		return BeyondMeCapabilities
	}
	for _, it := range items {
		if it.Text == "" {
			return CommandDataNotUnderstoodByMe
		}
	}
	return Success
}

func hasItem(items []Item, id byte) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

type setupMenuHandler struct{ baseHandler }

func (setupMenuHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*SetupMenuParams)
	if r := validItems(p.Items); r != Success {
		return nil, m.reject(cmd, r)
	}
	n, tr := m.accept(cmd, p.Title, false)
	if tr != nil {
		return nil, tr
	}
	n.Items = p.Items
	n.HelpAvailable = p.HelpAvailable
	return n, nil
}

func (h setupMenuHandler) confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error {
	if c == ConfirmYes {
		return h.displayed(m, e)
	}
	return h.baseHandler.confirm(m, e, c, data)
}

func (setupMenuHandler) displayed(m *Manager, e *Entry) error {
	m.menus[e.Owner] = e.Command
	m.setState(true)
	m.finish(e, m.response(e, m.success(&e.Command)))
	return nil
}

type selectItemHandler struct{ baseHandler }

func (selectItemHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*SelectItemParams)
	if r := validItems(p.Items); r != Success {
		return nil, m.reject(cmd, r)
	}
	n, tr := m.accept(cmd, p.Title, false)
	if tr != nil {
		return nil, tr
	}
	n.Items = p.Items
	n.DefaultItem = p.DefaultItem
	n.HelpAvailable = p.HelpAvailable
	n.UserResponseRequired = true
	return n, nil
}

func (selectItemHandler) confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error {
	p := e.Command.Params.(*SelectItemParams)
	var tr *TerminalResponse
	switch c {
	case ConfirmYes:
		if len(data) == 0 || !hasItem(p.Items, data[0]) {
			tr = m.response(e, MeUnableToProcessCommand)
			tr.MeProblem = MeNoSpecificCause
			break
		}
		tr = m.response(e, m.success(&e.Command))
		item := data[0]
		tr.Item = &item
	case ConfirmHelpInfo:
		tr = m.response(e, m.userResult(c))
		if len(data) > 0 {
			item := data[0]
			tr.Item = &item
		}
	default:
		tr = m.response(e, m.userResult(c))
	}
	m.finish(e, tr)
	return nil
}

// MenuSelection reports the user's choice from the main menu of owner.
func (m *Manager) MenuSelection(owner string, item byte, help bool) (*Envelope, error) {
	menu, ok := m.menus[owner]
	if !ok {
		return nil, ErrNoMainMenu
	}
	p := menu.Params.(*SetupMenuParams)
	if !hasItem(p.Items, item) {
		return nil, errors.Errorf("item %d not in main menu", item)
	}
	env := &Envelope{
		Owner:  owner,
		Kind:   EnvelopeMenuSelection,
		Device: Devices{Src: DeviceKeypad, Dest: DeviceSim},
		Item:   item,
		Help:   help,
	}
	m.log.Info("menu selection", zap.String("owner", owner), zap.Uint8("item", item))
	m.sink.Envelope(env)
	return env, nil
}
