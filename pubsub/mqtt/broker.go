package mqtt

import (
	"fmt"
	"os"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/barnybug/gosat/pubsub"
)

// Prefix all topics are published under.
const Prefix = "gosat/"

type Broker struct {
	broker     string
	client     MQTT.Client
	subscriber *Subscriber
}

func clientID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("gosat/%s-%s", hostname, uuid.New().String()[:8])
}

// NewBroker connects to the MQTT broker at url.
func NewBroker(url string) (*Broker, error) {
	b := &Broker{broker: url}
	b.subscriber = NewSubscriber(b)

	opts := MQTT.NewClientOptions()
	opts.AddBroker(url)
	opts.SetClientID(clientID())
	opts.SetCleanSession(true)
	opts.SetDefaultPublishHandler(b.subscriber.publishHandler)
	opts.SetOnConnectHandler(b.subscriber.connectHandler)

	b.client = MQTT.NewClient(opts)
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connecting to %s", url)
	}
	zap.S().Infof("Connected to mqtt broker %s", url)
	return b, nil
}

func (self *Broker) ID() string {
	return "mqtt: " + self.broker
}

func (self *Broker) Subscriber() pubsub.Subscriber {
	return self.subscriber
}

func (self *Broker) Publisher() pubsub.Publisher {
	return &Publisher{broker: self.broker, client: self.client}
}

func (self *Broker) Disconnect() {
	self.client.Disconnect(250)
}
