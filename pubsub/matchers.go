package pubsub

import "strings"

// PrefixTopic matches a topic and everything beneath it.
type PrefixTopic struct {
	Prefix string
}

func Prefix(prefix string) *PrefixTopic {
	return &PrefixTopic{prefix}
}

func (t *PrefixTopic) Match(topic string) bool {
	return t.Prefix == topic || strings.HasPrefix(topic, t.Prefix+"/")
}

type AllTopic struct{}

func All() *AllTopic {
	return &AllTopic{}
}

func (t *AllTopic) Match(topic string) bool {
	return true
}

type ExactTopic struct {
	Exact string
}

func Exact(exact string) *ExactTopic {
	return &ExactTopic{exact}
}

func (t *ExactTopic) Match(topic string) bool {
	return t.Exact == topic
}

// Exacts is a convenience for subscribing to several exact topics.
func Exacts(topics ...string) []Topic {
	ret := make([]Topic, len(topics))
	for i, t := range topics {
		ret[i] = Exact(t)
	}
	return ret
}
