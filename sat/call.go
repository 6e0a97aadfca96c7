package sat

type setupCallHandler struct{ dispatchOnYes }

func (setupCallHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*SetupCallParams)
	if p.Number == "" {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	if p.Redial || p.Subaddress != "" {
		return nil, m.reject(cmd, BeyondMeCapabilities)
	}
	if p.Condition == CallIfNotBusy && m.busy.InCall() {
		tr := m.reject(cmd, MeUnableToProcessCommand)
		tr.MeProblem = MeBusyOnCall
		return nil, tr
	}
	n, tr := m.accept(cmd, p.ConfirmText, false)
	if tr != nil {
		return nil, tr
	}
	n.Number = p.Number
	n.Condition = p.Condition
	n.UserResponseRequired = true
	return n, nil
}

func (h setupCallHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	if r.Outcome == ExecUserClearedDown {
		m.finish(e, m.response(e, UserClearedDownCallBeforeConnection))
		return nil
	}
	return h.baseHandler.exec(m, e, r)
}

type sendDtmfHandler struct{ dispatchOnDisplay }

func (sendDtmfHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*SendDtmfParams)
	if p.Dtmf == "" {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	if !m.busy.InCall() {
		tr := m.reject(cmd, MeUnableToProcessCommand)
		tr.MeProblem = MeNotInSpeechCall
		return nil, tr
	}
	text, shown := alpha(p.Alpha)
	return m.accept(cmd, text, !shown)
}
