package toolkit

import (
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/barnybug/gosat/pubsub"
	"github.com/barnybug/gosat/sat"
)

// Outbound topics.
const (
	TopicNotify   = "sat/notify"
	TopicResponse = "sat/response"
	TopicEnvelope = "sat/envelope"
	TopicDispatch = "sat/dispatch"
)

// sink publishes what the manager emits.
type sink struct {
	pub pubsub.Publisher
	log *zap.Logger
}

func (s *sink) emit(topic string, v interface{}, tlv []byte) {
	ev, err := pubsub.NewEventFrom(topic, v)
	if err != nil {
		s.log.Error("encoding event", zap.String("topic", topic), zap.Error(err))
		return
	}
	if tlv != nil {
		ev.SetField("tlv", hex.EncodeToString(tlv))
	}
	s.pub.Emit(ev)
}

func (s *sink) Notify(n *sat.Notification) {
	s.emit(TopicNotify, n, nil)
}

func (s *sink) Respond(tr *sat.TerminalResponse) {
	s.emit(TopicResponse, tr, tr.Encode())
}

func (s *sink) Envelope(env *sat.Envelope) {
	s.emit(TopicEnvelope, env, env.Encode())
}

func (s *sink) Dispatch(d *sat.Dispatch) {
	s.emit(TopicDispatch, d, nil)
}
