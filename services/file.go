package services

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type fileEntry struct {
	Value   string `yaml:"value"`
	Expires int64  `yaml:"expires,omitempty"`
}

// FileStore keeps the store as a yaml document, rewritten on every Set.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]fileEntry
	now  func() time.Time
}

func NewFileStore(path string) (*FileStore, error) {
	self := &FileStore{path: path, data: map[string]fileEntry{}, now: time.Now}
	b, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return self, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading store")
	}
	if err := yaml.Unmarshal(b, &self.data); err != nil {
		return nil, errors.Wrapf(err, "parsing store %s", path)
	}
	if self.data == nil {
		self.data = map[string]fileEntry{}
	}
	return self, nil
}

func (self *FileStore) live(e fileEntry) bool {
	return e.Expires == 0 || self.now().Unix() < e.Expires
}

func (self *FileStore) Get(key string) (string, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if e, ok := self.data[key]; ok && self.live(e) {
		return e.Value, nil
	}
	return "", keyMissing(key)
}

func (self *FileStore) Set(key string, value string) error {
	return self.put(key, fileEntry{Value: value})
}

func (self *FileStore) SetWithTTL(key string, value string, ttl uint64) error {
	expires := self.now().Add(time.Duration(ttl) * time.Second).Unix()
	return self.put(key, fileEntry{Value: value, Expires: expires})
}

func (self *FileStore) GetRecursive(prefix string) ([]Node, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	values := map[string]string{}
	for key, e := range self.data {
		if self.live(e) {
			values[key] = e.Value
		}
	}
	return prefixNodes(values, prefix), nil
}

func (self *FileStore) put(key string, e fileEntry) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.data[key] = e
	for k, v := range self.data {
		if !self.live(v) {
			delete(self.data, k)
		}
	}
	b, err := yaml.Marshal(self.data)
	if err != nil {
		return errors.Wrap(err, "encoding store")
	}
	if err := os.MkdirAll(filepath.Dir(self.path), 0755); err != nil {
		return errors.Wrap(err, "writing store")
	}
	tmp := self.path + ".tmp"
	if err := ioutil.WriteFile(tmp, b, 0644); err != nil {
		return errors.Wrap(err, "writing store")
	}
	return errors.Wrap(os.Rename(tmp, self.path), "writing store")
}
