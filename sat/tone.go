package sat

type playToneHandler struct{ dispatchOnDisplay }

func (playToneHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*PlayToneParams)
	text, shown := alpha(p.Alpha)
	n, tr := m.accept(cmd, text, !shown)
	if tr != nil {
		return nil, tr
	}
	n.Tone = p.Tone
	n.Duration = p.Duration.Milliseconds()
	if n.Duration == 0 {
		n.Duration = int(m.conf.ToneDuration.Milliseconds())
	}
	return n, nil
}

// confirm handles the user stopping the tone, or the UI reporting that it
// played the tone itself.
func (playToneHandler) confirm(m *Manager, e *Entry, c ConfirmType, data []byte) error {
	var r Result
	switch c {
	case ConfirmYes:
		r = m.success(&e.Command)
	case ConfirmNoOrCancel, ConfirmEnd:
		r = ProactiveSessionTerminatedByUser
	default:
		r = m.userResult(c)
	}
	m.finish(e, m.response(e, r))
	return nil
}
