package sat

// Bearer types this terminal can open a channel on.
var supportedBearers = map[byte]bool{
	0x02: true, // GPRS / UTRAN packet service
	0x03: true, // default bearer
	0x0b: true, // E-UTRAN packet service
}

// bipResult fills tr for the outcomes shared by the channel commands and
// reports whether it did.
func bipResult(tr *TerminalResponse, r *ExecResult) bool {
	if r.Outcome != ExecBipError {
		return false
	}
	tr.Result = BearerIndependentProtocolError
	tr.BipProblem = r.BipProblem
	return true
}

func channelLength(n int) *byte {
	if n > 0xff {
		n = 0xff
	}
	if n < 0 {
		n = 0
	}
	l := byte(n)
	return &l
}

type openChannelHandler struct{ dispatchOnYes }

func (openChannelHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*OpenChannelParams)
	if p.BufferSize == 0 {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	if !supportedBearers[p.Bearer.Type] {
		return nil, m.reject(cmd, BeyondMeCapabilities)
	}
	text, _ := alpha(p.Alpha)
	n, tr := m.accept(cmd, text, false)
	if tr != nil {
		return nil, tr
	}
	bearer := p.Bearer
	n.Bearer = &bearer
	n.BufferSize = p.BufferSize
	n.UserResponseRequired = true
	return n, nil
}

func (openChannelHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	p := e.Command.Params.(*OpenChannelParams)
	tr := m.response(e, Success)

	bearer := p.Bearer
	if r.Bearer != nil {
		bearer = *r.Bearer
	}
	size := p.BufferSize
	if r.BufferSize > 0 {
		size = r.BufferSize
	}

	switch {
	case bipResult(tr, r):
	case r.Outcome == ExecSuccess:
		tr.Result = m.success(&e.Command)
		if size < p.BufferSize {
			tr.Result = SuccessWithModification
		}
		if r.Channel != nil {
			tr.ChannelStatus = []ChannelStatus{*r.Channel}
		}
	default:
		m.execResult(e, tr, r)
	}
	tr.Bearer = &bearer
	tr.BufferSize = &size
	m.finish(e, tr)
	return nil
}

type closeChannelHandler struct{ dispatchOnDisplay }

func (closeChannelHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*CloseChannelParams)
	if p.ChannelID == 0 {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	text, shown := alpha(p.Alpha)
	n, tr := m.accept(cmd, text, !shown)
	if tr != nil {
		return nil, tr
	}
	n.ChannelID = p.ChannelID
	return n, nil
}

func (closeChannelHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	tr := m.response(e, Success)
	if !bipResult(tr, r) {
		m.execResult(e, tr, r)
	}
	m.finish(e, tr)
	return nil
}

type receiveDataHandler struct{ dispatchOnDisplay }

func (receiveDataHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*ReceiveDataParams)
	if p.ChannelID == 0 {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	text, shown := alpha(p.Alpha)
	n, tr := m.accept(cmd, text, !shown)
	if tr != nil {
		return nil, tr
	}
	n.ChannelID = p.ChannelID
	return n, nil
}

func (receiveDataHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	p := e.Command.Params.(*ReceiveDataParams)
	tr := m.response(e, Success)
	switch {
	case bipResult(tr, r):
	case r.Outcome == ExecSuccess:
		tr.Result = m.success(&e.Command)
		if len(r.Data) < int(p.Length) {
			tr.Result = SuccessWithMissingInfo
		}
		data, remaining := r.Data, r.Remaining
		if len(data) > maxChannelData {
			remaining += len(data) - maxChannelData
			data = data[:maxChannelData]
		}
		tr.ChannelData = append([]byte{}, data...)
		tr.ChannelDataLen = channelLength(remaining)
	default:
		m.execResult(e, tr, r)
	}
	m.finish(e, tr)
	return nil
}

type sendDataHandler struct{ dispatchOnDisplay }

func (sendDataHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*SendDataParams)
	if p.ChannelID == 0 || len(p.Data) == 0 {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	text, shown := alpha(p.Alpha)
	n, tr := m.accept(cmd, text, !shown)
	if tr != nil {
		return nil, tr
	}
	n.ChannelID = p.ChannelID
	return n, nil
}

func (sendDataHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	tr := m.response(e, Success)
	switch {
	case bipResult(tr, r):
	case r.Outcome == ExecSuccess:
		tr.Result = m.success(&e.Command)
		tr.ChannelDataLen = channelLength(r.Remaining)
	default:
		m.execResult(e, tr, r)
	}
	m.finish(e, tr)
	return nil
}

// channelStatusHandler never involves the user: the command is stored and
// handed straight to the channel executor.
type channelStatusHandler struct{ baseHandler }

func (channelStatusHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	id, err := m.store.Enqueue(*cmd, false)
	if err != nil {
		tr := m.reject(cmd, MeUnableToProcessCommand)
		tr.MeProblem = MeNoSpecificCause
		return nil, tr
	}
	e, _ := m.store.Peek(id)
	m.dispatch(e)
	return nil, nil
}

func (channelStatusHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	tr := m.response(e, Success)
	switch {
	case bipResult(tr, r):
	case r.Outcome == ExecSuccess:
		tr.Result = m.success(&e.Command)
		tr.ChannelStatus = r.Channels
		if len(tr.ChannelStatus) == 0 {
			tr.ChannelStatus = []ChannelStatus{{}}
		}
	default:
		m.execResult(e, tr, r)
	}
	m.finish(e, tr)
	return nil
}
