package sat

type displayTextHandler struct{ baseHandler }

func (displayTextHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*DisplayTextParams)
	if p.Text == "" {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}

	duration := p.Duration.Milliseconds()
	if duration == 0 {
		duration = int(m.conf.DisplayDuration.Milliseconds())
	}
	high := p.HighPriority
	help := m.helpRequested
	if help {
		high = true
		duration = int(m.conf.HelpDuration.Milliseconds())
	}

	n, tr := m.accept(cmd, p.Text, false)
	if tr != nil {
		return nil, tr
	}
	if help {
		m.helpRequested = false
	}
	n.Duration = duration
	n.HighPriority = high
	n.UserResponseRequired = p.ClearType == WaitForUserToClear
	n.ImmediateResponse = p.ImmediateResponse
	if !p.ImmediateResponse {
		return n, nil
	}

	// The SIM carries on at once; the entry only tracks the text on screen.
	e, err := m.store.Peek(n.CommandID)
	if err != nil {
		return n, nil
	}
	e.Responded = true
	return n, m.response(e, m.success(cmd))
}

func (displayTextHandler) confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error {
	var r Result
	switch c {
	case ConfirmYes:
		r = m.success(&e.Command)
	case ConfirmTimeout:
		p := e.Command.Params.(*DisplayTextParams)
		if p.ClearType == WaitForUserToClear {
			r = NoResponseFromUser
		} else {
			r = m.success(&e.Command)
		}
	default:
		r = m.userResult(c)
	}
	m.finish(e, m.response(e, r))
	return nil
}

type idleTextHandler struct{ respondOnDisplay }

func (idleTextHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*SetupIdleModeTextParams)
	if p.Text == "" && p.Icon != nil {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	return m.accept(cmd, p.Text, false)
}
