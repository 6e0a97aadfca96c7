package sat

type launchBrowserHandler struct{ dispatchOnYes }

func (launchBrowserHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*LaunchBrowserParams)
	switch p.Mode {
	case LaunchIfNotLaunched, UseExistingBrowser, CloseExistingLaunchNew:
	default:
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	text, _ := alpha(p.Alpha)
	n, tr := m.accept(cmd, text, false)
	if tr != nil {
		return nil, tr
	}
	n.URL = p.URL
	n.Mode = byte(p.Mode)
	n.UserResponseRequired = true
	return n, nil
}

func (h launchBrowserHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	if r.Outcome == ExecBrowserError {
		tr := m.response(e, LaunchBrowserGenericError)
		tr.BrowserProblem = r.BrowserProblem
		m.finish(e, tr)
		return nil
	}
	return h.baseHandler.exec(m, e, r)
}
