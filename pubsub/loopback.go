package pubsub

import (
	"sync"

	"go.uber.org/zap"
)

type eventChannel struct {
	C      chan *Event
	topics []Topic
}

// Loopback is an in-process broker: events emitted are delivered to its own
// subscribers. Used when no MQTT broker is configured.
type Loopback struct {
	channels     []eventChannel
	channelsLock sync.Mutex
}

func NewLoopback() *Loopback {
	return &Loopback{}
}

func (self *Loopback) ID() string {
	return "loopback"
}

// Emit never blocks: a subscriber whose buffer is full misses the event.
func (self *Loopback) Emit(ev *Event) {
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	for _, ch := range self.channels {
		for _, t := range ch.topics {
			if t.Match(ev.Topic) {
				select {
				case ch.C <- ev:
				default:
					zap.S().Warnf("Subscriber full, dropped %s", ev.Topic)
				}
				break
			}
		}
	}
}

func (self *Loopback) Subscribe(topics ...Topic) <-chan *Event {
	ch := eventChannel{
		C:      make(chan *Event, 64),
		topics: topics,
	}
	self.channelsLock.Lock()
	self.channels = append(self.channels, ch)
	self.channelsLock.Unlock()
	return ch.C
}

func (self *Loopback) Close(channel <-chan *Event) {
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	var channels []eventChannel
	for _, ch := range self.channels {
		if channel == (<-chan *Event)(ch.C) {
			close(ch.C)
		} else {
			channels = append(channels, ch)
		}
	}
	self.channels = channels
}
