package sat

import (
	"fmt"

	"github.com/pkg/errors"
)

// EventType is an event the SIM may subscribe to with SETUP EVENT LIST.
type EventType byte

const (
	EventMtCall              EventType = 0x00
	EventCallConnected       EventType = 0x01
	EventCallDisconnected    EventType = 0x02
	EventLocationStatus      EventType = 0x03
	EventUserActivity        EventType = 0x04
	EventIdleScreenAvailable EventType = 0x05
	EventCardReaderStatus    EventType = 0x06
	EventLanguageSelection   EventType = 0x07
	EventBrowserTermination  EventType = 0x08
	EventDataAvailable       EventType = 0x09
	EventChannelStatus       EventType = 0x0a
	EventAccessTechnology    EventType = 0x0b
	EventDisplayParameters   EventType = 0x0c
	EventLocalConnection     EventType = 0x0d
	EventNetworkSearchMode   EventType = 0x0e
	EventBrowsingStatus      EventType = 0x0f
	EventFramesInformation   EventType = 0x10
)

// EventMax bounds the enablement bitmap.
const EventMax = 0x20

var eventNames = map[EventType]string{
	EventMtCall:              "mt_call",
	EventCallConnected:       "call_connected",
	EventCallDisconnected:    "call_disconnected",
	EventLocationStatus:      "location_status",
	EventUserActivity:        "user_activity",
	EventIdleScreenAvailable: "idle_screen_available",
	EventCardReaderStatus:    "card_reader_status",
	EventLanguageSelection:   "language_selection",
	EventBrowserTermination:  "browser_termination",
	EventDataAvailable:       "data_available",
	EventChannelStatus:       "channel_status",
	EventAccessTechnology:    "access_technology",
	EventDisplayParameters:   "display_parameters",
	EventLocalConnection:     "local_connection",
	EventNetworkSearchMode:   "network_search_mode",
	EventBrowsingStatus:      "browsing_status",
	EventFramesInformation:   "frames_information",
}

func (e EventType) String() string {
	if s, ok := eventNames[e]; ok {
		return s
	}
	return fmt.Sprintf("event(0x%02x)", byte(e))
}

func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EventType) UnmarshalText(b []byte) error {
	v, err := ParseEventType(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseEventType parses an event name.
func ParseEventType(s string) (EventType, error) {
	for e, name := range eventNames {
		if name == s {
			return e, nil
		}
	}
	var v byte
	if _, err := fmt.Sscanf(s, "event(0x%02x)", &v); err == nil {
		return EventType(v), nil
	}
	return 0, errors.Errorf("unknown event: %q", s)
}

// supportedEvents are the events this terminal can report.
var supportedEvents = map[EventType]bool{
	EventUserActivity:        true,
	EventIdleScreenAvailable: true,
	EventLanguageSelection:   true,
	EventBrowserTermination:  true,
	EventDataAvailable:       true,
	EventChannelStatus:       true,
}

// oneShotEvents are removed from the list once reported.
var oneShotEvents = map[EventType]bool{
	EventUserActivity:        true,
	EventIdleScreenAvailable: true,
}

var (
	ErrEventDisabled    = errors.New("event not enabled")
	ErrUnsupportedEvent = errors.New("event not supported")
)

// EventSet is the enablement bitmap written by SETUP EVENT LIST.
type EventSet [EventMax]bool

// Enabled reports whether e is enabled.
func (s *EventSet) Enabled(e EventType) bool {
	return int(e) < EventMax && s[e]
}

// Reset disables every event.
func (s *EventSet) Reset() {
	*s = EventSet{}
}

// Replace sets the list wholesale. Recognised events are enabled even if
// others in the list are not; ok is false if any was unrecognised.
func (s *EventSet) Replace(events []EventType) (ok bool) {
	s.Reset()
	ok = true
	for _, e := range events {
		if int(e) < EventMax && supportedEvents[e] {
			s[e] = true
		} else {
			ok = false
		}
	}
	return ok
}

// List returns the enabled events in order.
func (s *EventSet) List() []EventType {
	var ret []EventType
	for i, on := range s {
		if on {
			ret = append(ret, EventType(i))
		}
	}
	return ret
}

// EventPayload carries the event specific data of an event download.
type EventPayload struct {
	Language      string         `json:"language,omitempty"`
	BrowserCause  byte           `json:"browser_cause,omitempty"`
	ChannelStatus *ChannelStatus `json:"channel_status,omitempty"`
	DataLength    byte           `json:"data_length,omitempty"`
}

// EnvelopeKind distinguishes the envelopes the terminal sends.
type EnvelopeKind string

const (
	EnvelopeEventDownload EnvelopeKind = "event_download"
	EnvelopeMenuSelection EnvelopeKind = "menu_selection"
)

// Envelope is a terminal-to-SIM message.
type Envelope struct {
	Owner   string       `json:"owner"`
	Kind    EnvelopeKind `json:"kind"`
	Event   EventType    `json:"event,omitempty"`
	Device  Devices      `json:"device"`
	Payload EventPayload `json:"payload"`
	Item    byte         `json:"item,omitempty"`
	Help    bool         `json:"help,omitempty"`
}
