package mqtt

import (
	"strings"
	"sync"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/barnybug/gosat/pubsub"
)

type eventChannel struct {
	C      chan *pubsub.Event
	topics []pubsub.Topic
}

// Subscriber struct
type Subscriber struct {
	broker         *Broker
	channels       []eventChannel
	channelsLock   sync.Mutex
	topicCount     map[string]int
	topicCountLock sync.RWMutex
}

func NewSubscriber(broker *Broker) *Subscriber {
	return &Subscriber{broker: broker, topicCount: map[string]int{}}
}

func (self *Subscriber) ID() string {
	return self.broker.ID()
}

func (self *Subscriber) publishHandler(client MQTT.Client, msg MQTT.Message) {
	topic := strings.TrimPrefix(msg.Topic(), Prefix)
	event := pubsub.Parse(string(msg.Payload()), topic)
	if event == nil {
		zap.S().Debugf("Ignoring unparseable message on %s", msg.Topic())
		return
	}
	event.SetRetained(msg.Retained())
	self.dispatch(event)
}

func (self *Subscriber) dispatch(event *pubsub.Event) {
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	for _, ch := range self.channels {
		for _, t := range ch.topics {
			if t.Match(event.Topic) {
				ch.C <- event
				break
			}
		}
	}
}

func (self *Subscriber) connectHandler(client MQTT.Client) {
	// (re)subscribe when (re)connected
	subs := map[string]byte{}
	self.topicCountLock.RLock()
	for topic := range self.topicCount {
		subs[topic] = 1 // QOS
	}
	self.topicCountLock.RUnlock()

	if len(subs) > 0 {
		zap.S().Infof("Connected, subscribing: %v", subs)
		// nil = all messages go to the default handler
		if token := client.SubscribeMultiple(subs, nil); token.Wait() && token.Error() != nil {
			zap.S().Errorf("Error subscribing: %s", token.Error())
		}
	}
}

func topicToMqtt(topic pubsub.Topic) string {
	switch topic := topic.(type) {
	case *pubsub.AllTopic:
		return Prefix + "#"
	case *pubsub.ExactTopic:
		return Prefix + topic.Exact
	case *pubsub.PrefixTopic:
		return Prefix + topic.Prefix + "/#"
	}
	zap.S().Panicf("Topic type unsupported: %T", topic)
	return ""
}

func topicsToMqtt(topics []pubsub.Topic) []string {
	var ret []string
	for _, topic := range topics {
		ret = append(ret, topicToMqtt(topic))
	}
	return ret
}

func (self *Subscriber) addChannel(topics []pubsub.Topic) eventChannel {
	// subscribe topics not yet subscribed to
	subs := map[string]byte{}
	self.topicCountLock.Lock()
	for _, topic := range topicsToMqtt(topics) {
		if _, exists := self.topicCount[topic]; !exists {
			subs[topic] = 1 // QOS
		}
		self.topicCount[topic] += 1
	}
	self.topicCountLock.Unlock()

	ch := eventChannel{
		C:      make(chan *pubsub.Event, 16),
		topics: topics,
	}
	self.channelsLock.Lock()
	self.channels = append(self.channels, ch)
	self.channelsLock.Unlock()

	if len(subs) > 0 && self.broker.client != nil {
		if token := self.broker.client.SubscribeMultiple(subs, nil); token.Wait() && token.Error() != nil {
			zap.S().Errorf("Error subscribing: %s", token.Error())
		}
	}
	return ch
}

func (self *Subscriber) Subscribe(topics ...pubsub.Topic) <-chan *pubsub.Event {
	return self.addChannel(topics).C
}

func (self *Subscriber) Close(channel <-chan *pubsub.Event) {
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	var channels []eventChannel
	for _, ch := range self.channels {
		if channel != (<-chan *pubsub.Event)(ch.C) {
			channels = append(channels, ch)
			continue
		}
		for _, t := range topicsToMqtt(ch.topics) {
			self.topicCountLock.Lock()
			self.topicCount[t] -= 1
			current := self.topicCount[t]
			if current == 0 {
				delete(self.topicCount, t)
			}
			self.topicCountLock.Unlock()
			if current == 0 && self.broker.client != nil {
				if token := self.broker.client.Unsubscribe(t); token.Wait() && token.Error() != nil {
					zap.S().Errorf("Error unsubscribing: %s", token.Error())
				}
			}
		}
		close(ch.C)
	}
	self.channels = channels
}
