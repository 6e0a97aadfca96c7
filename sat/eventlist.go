package sat

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type eventListHandler struct{ synchronous }

func (eventListHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*SetupEventListParams)
	r := Success
	if !m.events.Replace(p.Events) {
		r = BeyondMeCapabilities
	}
	m.log.Info("event list", zap.Stringers("requested", p.Events), zap.Stringer("result", r))

	// The SIM is told straight away if the idle screen is already up.
	if m.events.Enabled(EventIdleScreenAvailable) && m.flag(KeyIdleScreen) {
		env, err := m.BuildEnvelope(cmd.Owner, EventIdleScreenAvailable, Devices{}, EventPayload{})
		if err == nil {
			m.pending = append(m.pending, env)
		}
	}
	return nil, newResponse(cmd, -1, r)
}

// IsEventEnabled reports whether the SIM has asked to hear about e.
func (m *Manager) IsEventEnabled(e EventType) bool {
	return m.events.Enabled(e)
}

// Events lists the enabled events.
func (m *Manager) Events() []EventType {
	return m.events.List()
}

func defaultDevices(e EventType) Devices {
	if e == EventIdleScreenAvailable {
		return Devices{Src: DeviceDisplay, Dest: DeviceSim}
	}
	return Devices{Src: DeviceMe, Dest: DeviceSim}
}

// BuildEnvelope builds the event download for e, provided the SIM enabled
// it. One-shot events are disabled once built.
func (m *Manager) BuildEnvelope(owner string, e EventType, devs Devices, payload EventPayload) (*Envelope, error) {
	if !supportedEvents[e] {
		return nil, errors.Wrap(ErrUnsupportedEvent, e.String())
	}
	if !m.events.Enabled(e) {
		return nil, errors.Wrap(ErrEventDisabled, e.String())
	}
	if devs == (Devices{}) {
		devs = defaultDevices(e)
	}
	if oneShotEvents[e] {
		m.events[e] = false
	}
	return &Envelope{
		Owner:   owner,
		Kind:    EnvelopeEventDownload,
		Event:   e,
		Device:  devs,
		Payload: payload,
	}, nil
}

// Event forwards a terminal event to the SIM if it is enabled.
func (m *Manager) Event(owner string, e EventType, devs Devices, payload EventPayload) error {
	env, err := m.BuildEnvelope(owner, e, devs, payload)
	if err != nil {
		m.log.Debug("event not forwarded", zap.Stringer("event", e), zap.Error(err))
		return err
	}
	m.sink.Envelope(env)
	return nil
}
