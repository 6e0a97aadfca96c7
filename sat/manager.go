// Package sat mediates between a modem's SIM Application Toolkit engine and
// the applications that present proactive commands to the user.
//
// A decoded proactive command enters through Manager.Handle. Commands that
// need the user or another application are stored under a fresh command id
// and announced with a Notification; the rest are answered straight away.
// The answer to a stored command arrives later as a user confirmation, an
// execution result, or a display status, keyed by that id, and is turned into
// exactly one TerminalResponse.
//
// A Manager is not safe for concurrent use. The owning service drives it from
// a single goroutine.
package sat

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Keys read from and written to the key/value store.
const (
	KeyLanguage   = "sat/language"
	KeyIdleScreen = "sat/idle_screen_launched"
	KeyState      = "sat/state"
)

// Sink receives everything the manager emits.
type Sink interface {
	Notify(n *Notification)
	Respond(tr *TerminalResponse)
	Envelope(env *Envelope)
	Dispatch(d *Dispatch)
}

// KeyValue is the persistent settings store.
type KeyValue interface {
	Get(key string) (string, error)
	Set(key string, value string) error
}

// BusyState reports what the terminal is currently doing.
type BusyState interface {
	InCall() bool
	SsBusy() bool
	UssdBusy() bool
}

type idle struct{}

func (idle) InCall() bool   { return false }
func (idle) SsBusy() bool   { return false }
func (idle) UssdBusy() bool { return false }

type memoryKV map[string]string

func (kv memoryKV) Get(key string) (string, error) {
	if v, ok := kv[key]; ok {
		return v, nil
	}
	return "", errors.Errorf("key missing: %s", key)
}

func (kv memoryKV) Set(key string, value string) error {
	kv[key] = value
	return nil
}

// Config tunes a Manager. Zero values select the defaults.
type Config struct {
	Capacity        int
	IconSupported   bool
	DeferSessionEnd bool
	DisplayDuration time.Duration
	HelpDuration    time.Duration
	ToneDuration    time.Duration
	Language        string
	Logger          *zap.Logger
	Now             func() time.Time
}

func (c *Config) setDefaults() {
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.DisplayDuration <= 0 {
		c.DisplayDuration = 15 * time.Second
	}
	if c.HelpDuration <= 0 {
		c.HelpDuration = 7 * time.Second
	}
	if c.ToneDuration <= 0 {
		c.ToneDuration = time.Second
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Manager is the proactive command state machine for one modem process.
type Manager struct {
	conf     Config
	log      *zap.Logger
	store    *Store
	events   EventSet
	sink     Sink
	kv       KeyValue
	busy     BusyState
	handlers map[CommandType]handler
	menus    map[string]Command
	pending  []*Envelope

	helpRequested bool
}

// NewManager builds a manager. kv and busy may be nil.
func NewManager(conf Config, sink Sink, kv KeyValue, busy BusyState) *Manager {
	conf.setDefaults()
	if kv == nil {
		kv = memoryKV{}
	}
	if busy == nil {
		busy = idle{}
	}
	return &Manager{
		conf:     conf,
		log:      conf.Logger,
		store:    NewStore(conf.Capacity),
		sink:     sink,
		kv:       kv,
		busy:     busy,
		handlers: newHandlers(),
		menus:    map[string]Command{},
	}
}

// Store exposes the correlation store.
func (m *Manager) Store() *Store {
	return m.store
}

// InFlight lists the commands awaiting a response.
func (m *Manager) InFlight() []*Entry {
	return m.store.Entries()
}

// HelpRequested reports whether the next DISPLAY TEXT will be raised.
func (m *Manager) HelpRequested() bool {
	return m.helpRequested
}

// MainMenu returns the SET UP MENU currently installed for owner.
func (m *Manager) MainMenu(owner string) (Command, bool) {
	cmd, ok := m.menus[owner]
	return cmd, ok
}

// Handle processes a decoded proactive command and emits the resulting
// notification and/or terminal response.
func (m *Manager) Handle(cmd Command) {
	n, tr := m.Build(cmd)
	if tr != nil {
		m.send(tr)
	}
	if n != nil {
		m.sink.Notify(n)
	}
	m.flush()
}

// Build validates cmd and either stores it, returning the notification to
// show, or returns the response to send at once. DISPLAY TEXT with an
// immediate response returns both.
func (m *Manager) Build(cmd Command) (*Notification, *TerminalResponse) {
	m.log.Debug("proactive command",
		zap.String("owner", cmd.Owner),
		zap.Stringer("type", cmd.Type),
		zap.Uint8("number", cmd.Number))
	if cmd.Params == nil {
		cmd.Params = NewParams(cmd.Type)
	}
	h, ok := m.handlers[cmd.Type]
	if !ok || cmd.Type == Unsupported {
		m.log.Info("unsupported command", zap.Stringer("type", cmd.Type))
		return nil, m.reject(&cmd, BeyondMeCapabilities)
	}
	if cmd.Params.CommandType() != cmd.Type {
		return nil, m.reject(&cmd, CommandDataNotUnderstoodByMe)
	}
	return h.build(m, &cmd)
}

// Confirm applies the user's answer to a stored command.
func (m *Manager) Confirm(id int, c ConfirmType, data []byte) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	m.log.Debug("user confirm", zap.Int("id", id), zap.Stringer("confirm", c))
	return m.handlers[e.Command.Type].confirm(m, e, c, data)
}

// Exec applies an execution result to a stored command.
func (m *Manager) Exec(id int, t CommandType, r ExecResult) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	if e.Command.Type != t {
		m.log.Warn("exec result for wrong command type",
			zap.Int("id", id),
			zap.Stringer("stored", e.Command.Type),
			zap.Stringer("reported", t))
		return errors.Errorf("id %d holds %s, not %s", id, e.Command.Type, t)
	}
	m.log.Debug("exec result", zap.Int("id", id), zap.Stringer("outcome", r.Outcome))
	return m.handlers[t].exec(m, e, &r)
}

// DisplayStatus reports whether the notification for id was shown.
func (m *Manager) DisplayStatus(id int, displayed bool) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	if !displayed {
		tr := m.response(e, MeUnableToProcessCommand)
		tr.MeProblem = MeNoSpecificCause
		m.finish(e, tr)
		return nil
	}
	return m.handlers[e.Command.Type].displayed(m, e)
}

// Reset discards the commands of owner, as when its modem re-initialises.
func (m *Manager) Reset(owner string) {
	n := m.store.RemoveAllFor(owner, m.conf.DeferSessionEnd)
	delete(m.menus, owner)
	m.setState(false)
	m.log.Info("session reset", zap.String("owner", owner), zap.Int("discarded", n))
}

// EndSession tells the UI to close prompts for commands kept by Reset.
func (m *Manager) EndSession(owner string) {
	for _, e := range m.store.TakeSessionEnd(owner) {
		m.sink.Notify(&Notification{
			Kind:      KindSessionEnd,
			CommandID: e.ID,
			Owner:     owner,
			Type:      e.Command.Type,
		})
	}
}

func (m *Manager) lookup(id int) (*Entry, error) {
	e, err := m.store.Peek(id)
	if err != nil {
		m.log.Warn("dropping answer for unknown command", zap.Int("id", id))
		return nil, err
	}
	return e, nil
}

// accept stores cmd and starts its notification.
func (m *Manager) accept(cmd *Command, text string, silent bool) (*Notification, *TerminalResponse) {
	id, err := m.store.Enqueue(*cmd, !silent)
	if err != nil {
		m.log.Warn("rejecting command", zap.Stringer("type", cmd.Type), zap.Error(err))
		tr := m.reject(cmd, MeUnableToProcessCommand)
		tr.MeProblem = MeNoSpecificCause
		return nil, tr
	}
	m.log.Info("enqueued",
		zap.Int("id", id),
		zap.String("owner", cmd.Owner),
		zap.Stringer("type", cmd.Type))
	p := cmd.Params.presentation()
	return &Notification{
		Kind:      KindCommand,
		CommandID: id,
		Owner:     cmd.Owner,
		Type:      cmd.Type,
		Text:      text,
		Silent:    silent,
		Icon:      p.Icon,
	}, nil
}

func (m *Manager) reject(cmd *Command, r Result) *TerminalResponse {
	return newResponse(cmd, -1, r)
}

func (m *Manager) response(e *Entry, r Result) *TerminalResponse {
	return newResponse(&e.Command, e.ID, r)
}

// success picks the successful result for cmd: partial comprehension wins
// over an icon that could not be shown.
func (m *Manager) success(cmd *Command) Result {
	p := cmd.Params.presentation()
	if len(p.TextAttr) > 0 {
		return SuccessWithPartialComprehension
	}
	if p.Icon != nil && !m.conf.IconSupported {
		return SuccessButRequestedIconNotDisplayed
	}
	return Success
}

// userResult maps a confirmation other than Yes.
func (m *Manager) userResult(c ConfirmType) Result {
	switch c {
	case ConfirmNoOrCancel:
		return BackwardMoveByUser
	case ConfirmTimeout:
		return NoResponseFromUser
	case ConfirmHelpInfo:
		m.helpRequested = true
		return HelpInfoRequiredByUser
	case ConfirmEnd:
		return ProactiveSessionTerminatedByUser
	}
	return MeUnableToProcessCommand
}

// execResult fills tr from the outcomes every command shares.
func (m *Manager) execResult(e *Entry, tr *TerminalResponse, r *ExecResult) {
	switch r.Outcome {
	case ExecSuccess:
		tr.Result = m.success(&e.Command)
	case ExecSuccessLimitedService:
		tr.Result = SuccessLimitedService
	case ExecModifiedByCallControl:
		tr.Result = SuccessButModifiedByCallControl
	case ExecNetworkUnable:
		tr.Result = NetworkUnableToProcessCommand
		tr.NetworkProblem = r.NetworkProblem
	case ExecUserDidNotAccept:
		tr.Result = UserDidNotAcceptProactiveCommand
	case ExecUserTerminated:
		tr.Result = ProactiveSessionTerminatedByUser
	case ExecCallControlProblem:
		tr.Result = CallControlPermanentProblem
	case ExecBeyondCapabilities:
		tr.Result = BeyondMeCapabilities
	default:
		tr.Result = MeUnableToProcessCommand
		tr.MeProblem = r.MeProblem
	}
}

// finish removes e and sends tr, unless a response already went out.
func (m *Manager) finish(e *Entry, tr *TerminalResponse) {
	if _, err := m.store.Dequeue(e.ID); err != nil {
		m.log.Warn("finishing unknown command", zap.Int("id", e.ID))
		return
	}
	if e.Responded {
		m.log.Debug("already answered", zap.Int("id", e.ID))
		return
	}
	m.send(tr)
}

func (m *Manager) send(tr *TerminalResponse) {
	m.log.Info("terminal response",
		zap.Int("id", tr.CommandID),
		zap.Stringer("type", tr.CommandType),
		zap.Stringer("result", tr.Result))
	m.sink.Respond(tr)
}

// dispatch hands e to its executor; the response follows via Exec.
func (m *Manager) dispatch(e *Entry) error {
	if e.Dispatched {
		return errors.Errorf("id %d already dispatched", e.ID)
	}
	e.Dispatched = true
	m.sink.Dispatch(&Dispatch{CommandID: e.ID, Command: e.Command})
	return nil
}

func (m *Manager) flush() {
	for _, env := range m.pending {
		m.sink.Envelope(env)
	}
	m.pending = nil
}

func (m *Manager) setState(on bool) {
	v := "0"
	if on {
		v = "1"
	}
	if err := m.kv.Set(KeyState, v); err != nil {
		m.log.Warn("storing sat state", zap.Error(err))
	}
}

func (m *Manager) flag(key string) bool {
	v, err := m.kv.Get(key)
	if err != nil {
		return false
	}
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true" || v == "yes"
}
