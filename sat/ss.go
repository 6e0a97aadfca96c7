package sat

import (
	"go.uber.org/zap"
)

// Longest SS string and USSD string accepted, in characters.
const (
	maxSsLength   = 160
	maxUssdLength = 182
)

// serviceAlpha checks the presentation of SEND SS and SEND USSD: without an
// alpha identifier there must be an icon that stands on its own.
func serviceAlpha(a *string, icon *Icon) (string, bool) {
	if a != nil {
		return *a, true
	}
	if icon != nil && icon.SelfExplanatory {
		return "", true
	}
	return "", false
}

// serviceResult settles SEND SS and SEND USSD from the network's answer,
// re-encoding a returned string in the alphabet it arrived in.
func serviceResult(m *Manager, e *Entry, r *ExecResult, alphabet func(byte) Alphabet, returnError Result) {
	tr := m.response(e, Success)
	switch r.Outcome {
	case ExecSuccess:
		tr.Result = m.success(&e.Command)
		if len(r.Data) > 0 {
			t, err := Transcode(alphabet(r.DCS), r.Data)
			if err == nil && len(t.Data) >= maxValueLength {
				err = errTextTooLong
			}
			if err != nil {
				m.log.Warn("re-encoding returned string", zap.Int("id", e.ID), zap.Error(err))
				tr.Result = MeUnableToProcessCommand
				tr.MeProblem = MeNoSpecificCause
				break
			}
			tr.Text = t
		}
	case ExecSsError, ExecUssdError:
		tr.Result = returnError
		tr.SsProblem = r.SsProblem
	case ExecUserTerminated:
		tr.Result = UssdOrSsTerminatedByUser
	default:
		m.execResult(e, tr, r)
	}
	m.finish(e, tr)
}

type sendSsHandler struct{ dispatchOnDisplay }

func (sendSsHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*SendSsParams)
	text, ok := serviceAlpha(p.Alpha, p.Icon)
	if !ok || p.SsString == "" || len(p.SsString) > maxSsLength {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	if m.busy.SsBusy() {
		tr := m.reject(cmd, MeUnableToProcessCommand)
		tr.MeProblem = MeBusyOnSs
		return nil, tr
	}
	n, tr := m.accept(cmd, text, false)
	if tr != nil {
		return nil, tr
	}
	n.SsString = p.SsString
	return n, nil
}

func (sendSsHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	serviceResult(m, e, r, AlphabetFromDCS, SsReturnError)
	return nil
}

type sendUssdHandler struct{ dispatchOnDisplay }

func (sendUssdHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*SendUssdParams)
	text, ok := serviceAlpha(p.Alpha, p.Icon)
	length := len(p.Ussd)
	if len(p.Data) > 0 {
		length = len(p.Data)
	}
	if !ok || length == 0 || length > maxUssdLength {
		return nil, m.reject(cmd, CommandDataNotUnderstoodByMe)
	}
	if m.busy.UssdBusy() {
		tr := m.reject(cmd, MeUnableToProcessCommand)
		tr.MeProblem = MeBusyOnUssd
		return nil, tr
	}
	n, tr := m.accept(cmd, text, false)
	if tr != nil {
		return nil, tr
	}
	n.SsString = p.Ussd
	return n, nil
}

func (sendUssdHandler) exec(m *Manager, e *Entry, r *ExecResult) error {
	serviceResult(m, e, r, AlphabetFromCbsDCS, UssdReturnError)
	return nil
}
