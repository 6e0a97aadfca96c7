package mqtt

import (
	MQTT "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/barnybug/gosat/pubsub"
)

// Publisher for mqtt
type Publisher struct {
	broker string
	client MQTT.Client
}

func (pub *Publisher) ID() string {
	return "mqtt: " + pub.broker
}

// Emit an event
func (pub *Publisher) Emit(ev *pubsub.Event) {
	token := pub.client.Publish(Prefix+ev.Topic, 1, ev.Retained, ev.Bytes())
	if token.Wait() && token.Error() != nil {
		zap.S().Errorf("Error publishing %s: %s", ev.Topic, token.Error())
	}
}
