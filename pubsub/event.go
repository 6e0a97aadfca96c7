package pubsub

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type Fields map[string]interface{}

type Event struct {
	Topic     string
	Timestamp time.Time
	Fields    Fields
	Retained  bool
}

func NewEvent(topic string, fields Fields) *Event {
	if fields == nil {
		fields = Fields{}
	}
	timestamp := time.Now().UTC()
	if ts, ok := fields["timestamp"].(string); ok {
		delete(fields, "timestamp")
		timestamp, _ = time.Parse(TimeFormat, ts)
	}
	return &Event{Topic: topic, Timestamp: timestamp, Fields: fields}
}

// NewEventFrom builds an event whose fields are the JSON encoding of v.
func NewEventFrom(topic string, v interface{}) (*Event, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s event", topic)
	}
	var fields Fields
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, errors.Wrapf(err, "encoding %s event", topic)
	}
	return NewEvent(topic, fields), nil
}

const TimeFormat = "2006-01-02 15:04:05.000000"

func (event *Event) Map() map[string]interface{} {
	data := make(map[string]interface{})
	data["topic"] = event.Topic
	data["timestamp"] = event.Timestamp.Format(TimeFormat)
	for k, v := range event.Fields {
		data[k] = v
	}
	return data
}

func (event *Event) Bytes() []byte {
	v, _ := json.Marshal(event.Map())
	return v
}

func (event *Event) String() string {
	return string(event.Bytes())
}

// Decode unmarshals the event's fields into v.
func (event *Event) Decode(v interface{}) error {
	b, err := json.Marshal(event.Fields)
	if err != nil {
		return errors.Wrapf(err, "decoding %s event", event.Topic)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Wrapf(err, "decoding %s event", event.Topic)
	}
	return nil
}

func (event *Event) StringField(name string) string {
	ret, _ := event.Fields[name].(string)
	return ret
}

func (event *Event) IntField(name string) int64 {
	ret, _ := event.Fields[name].(float64)
	return int64(ret)
}

func (event *Event) BoolField(name string) bool {
	ret, _ := event.Fields[name].(bool)
	return ret
}

func (event *Event) Has(name string) bool {
	_, ok := event.Fields[name]
	return ok
}

func (event *Event) SetField(name string, value interface{}) {
	event.Fields[name] = value
}

func (event *Event) SetFields(fields Fields) {
	for key, value := range fields {
		event.Fields[key] = value
	}
}

func (event *Event) SetRetained(retained bool) {
	event.Retained = retained
}

func (event *Event) Owner() string {
	return event.StringField("owner")
}

func (event *Event) State() string {
	return event.StringField("state")
}

// Parse decodes a message. The topic embedded in the message wins over the
// one it was delivered on.
func Parse(msg string, topic string) *Event {
	var fields Fields
	err := json.Unmarshal([]byte(msg), &fields)
	if err != nil {
		return nil
	}
	if t, ok := fields["topic"].(string); ok {
		topic = t
	}
	if topic == "" {
		return nil
	}
	delete(fields, "topic")
	return NewEvent(topic, fields)
}
