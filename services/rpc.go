package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/barnybug/gosat/pubsub"
)

var ErrTimeout = errors.New("timeout")

// Query with `query`, waiting for `timeout` for results.
func Query(query string, timeout time.Duration) []*pubsub.Event {
	ch := QueryChannel(query, timeout)
	events := []*pubsub.Event{}
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

// QueryChannel sends `query` and streams the answers until `timeout`.
func QueryChannel(query string, timeout time.Duration) <-chan *pubsub.Event {
	reply_to := "_rpc." + uuid.New().String()
	ch := Subscriber.Subscribe(pubsub.Exact(reply_to))

	SendQuery(query, "rpc", "", reply_to)

	// close the listener after timeout
	go func() {
		time.Sleep(timeout)
		Subscriber.Close(ch)
	}()

	return ch
}

// RPC returns the first answer to query.
func RPC(query string, timeout time.Duration) (*pubsub.Event, error) {
	ch := QueryChannel(query, timeout)
	for ev := range ch {
		return ev, nil
	}
	return nil, ErrTimeout
}
