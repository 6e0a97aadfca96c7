package services

import "github.com/barnybug/gosat/pubsub"

func SendQuery(query, source, remote, reply_to string) {
	fields := pubsub.Fields{
		"source":   source,
		"query":    query,
		"remote":   remote,
		"reply_to": reply_to,
	}
	ev := pubsub.NewEvent("query", fields)
	Publisher.Emit(ev)
}

// Send emits fields on topic, as the CLI does to drive the sat service.
func Send(topic string, fields pubsub.Fields) {
	Publisher.Emit(pubsub.NewEvent(topic, fields))
}
