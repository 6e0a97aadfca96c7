package sat

type sendSmsHandler struct{ dispatchOnDisplay }

func (sendSmsHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*SendSmsParams)
	if len(p.TPDU) == 0 && p.Body == "" {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	text, shown := alpha(p.Alpha)
	n, tr := m.accept(cmd, text, !shown)
	if tr != nil {
		return nil, tr
	}
	n.Number = p.Destination
	return n, nil
}

func (h sendSmsHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	if r.Outcome == ExecSmsRpError {
		tr := m.response(e, SmsRpError)
		tr.NetworkProblem = r.NetworkProblem
		m.finish(e, tr)
		return nil
	}
	return h.baseHandler.exec(m, e, r)
}
