package dummy

import (
	"sync"

	"github.com/barnybug/gosat/pubsub"
)

// Publisher records emitted events for tests.
type Publisher struct {
	mu     sync.Mutex
	Events []*pubsub.Event
}

func (pub *Publisher) ID() string {
	return "dummy"
}

func (pub *Publisher) Emit(ev *pubsub.Event) {
	pub.mu.Lock()
	pub.Events = append(pub.Events, ev)
	pub.mu.Unlock()
}

// Topic returns the recorded events on topic.
func (pub *Publisher) Topic(topic string) []*pubsub.Event {
	pub.mu.Lock()
	defer pub.mu.Unlock()
	var ret []*pubsub.Event
	for _, ev := range pub.Events {
		if ev.Topic == topic {
			ret = append(ret, ev)
		}
	}
	return ret
}

func (pub *Publisher) Reset() {
	pub.mu.Lock()
	pub.Events = nil
	pub.mu.Unlock()
}
