package services

import (
	"sort"
	"strings"
	"sync"
)

// MockStore keeps everything in memory. It backs the "memory" store kind
// and the tests.
type MockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMockStore() *MockStore {
	ret := MockStore{
		data: map[string]string{},
	}
	return &ret
}

func (self *MockStore) Get(key string) (string, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if value, ok := self.data[key]; ok {
		return value, nil
	}
	return "", keyMissing(key)
}

func (self *MockStore) Set(key string, value string) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.data[key] = value
	return nil
}

// SetWithTTL ignores the ttl.
func (self *MockStore) SetWithTTL(key string, value string, ttl uint64) error {
	return self.Set(key, value)
}

func (self *MockStore) GetRecursive(prefix string) ([]Node, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	return prefixNodes(self.data, prefix), nil
}

func prefixNodes(data map[string]string, prefix string) []Node {
	ret := []Node{}
	for key, value := range data {
		if strings.HasPrefix(key, prefix+"/") {
			ret = append(ret, Node{Key: key, Value: value})
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Key < ret[j].Key })
	return ret
}
