package services

import (
	"github.com/pkg/errors"

	"github.com/barnybug/gosat/config"
)

// Store persists settings shared between services, such as the SAT state
// and the selected language.
type Store interface {
	Set(key string, value string) error
	SetWithTTL(key string, value string, ttl uint64) error
	Get(key string) (string, error)
	GetRecursive(prefix string) ([]Node, error)
}

type Node struct {
	Key   string
	Value string
}

var ErrKeyMissing = errors.New("key missing")

func keyMissing(key string) error {
	return errors.Wrap(ErrKeyMissing, key)
}

// NewStore opens the store selected by conf.Kind.
func NewStore(conf config.StoreConf) (Store, error) {
	switch conf.Kind {
	case "memory":
		return NewMockStore(), nil
	case "file":
		s, err := NewFileStore(conf.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		s, err := NewRedisStore(conf.Address)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errors.Errorf("unknown store kind: %s", conf.Kind)
}
