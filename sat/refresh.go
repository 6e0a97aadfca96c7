package sat

import (
	"go.uber.org/zap"
)

type refreshHandler struct{ respondOnDisplay }

func (refreshHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*RefreshParams)
	if p.Mode > RefreshSessionReset {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	if p.Mode == RefreshFileChange && len(p.Files) == 0 {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	if p.Mode != RefreshFileChange {
		m.events.Reset()
		m.log.Debug("event list cleared by refresh", zap.Uint8("mode", byte(p.Mode)))
	}
	if p.Mode == RefreshSimReset {
		delete(m.menus, cmd.Owner)
		m.setState(false)
	}
	text, shown := alpha(p.Alpha)
	n, tr := m.accept(cmd, text, !shown)
	if tr != nil {
		return nil, tr
	}
	n.Mode = byte(p.Mode)
	n.Files = p.Files
	return n, nil
}
