package services

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barnybug/gosat/config"
)

func TestMockStore(t *testing.T) {
	s := NewMockStore()
	_, err := s.Get("sat/state")
	assert.Equal(t, ErrKeyMissing, errors.Cause(err))

	s.Set("sat/state", "1")
	s.Set("sat/language", "de")
	s.Set("other", "x")
	v, err := s.Get("sat/state")
	assert.NoError(t, err)
	assert.Equal(t, "1", v)

	nodes, err := s.GetRecursive("sat")
	assert.NoError(t, err)
	assert.Equal(t, []Node{{"sat/language", "de"}, {"sat/state", "1"}}, nodes)
}

func TestFileStorePersists(t *testing.T) {
	dir, err := ioutil.TempDir("", "gosat")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "sub", "store.yml")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("sat/idle_screen_launched", "1"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, err := reopened.Get("sat/idle_screen_launched")
	assert.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestFileStoreTTL(t *testing.T) {
	dir, err := ioutil.TempDir("", "gosat")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := NewFileStore(filepath.Join(dir, "store.yml"))
	require.NoError(t, err)
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	require.NoError(t, s.SetWithTTL("sat/language", "fr", 60))

	v, err := s.Get("sat/language")
	assert.NoError(t, err)
	assert.Equal(t, "fr", v)

	now = now.Add(2 * time.Minute)
	_, err = s.Get("sat/language")
	assert.Error(t, err)
	nodes, _ := s.GetRecursive("sat")
	assert.Empty(t, nodes)
}

func TestFileStoreBadYaml(t *testing.T) {
	f, err := ioutil.TempFile("", "store")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	f.WriteString("- not\n- a map\n")
	f.Close()
	_, err = NewFileStore(f.Name())
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(config.StoreConf{Kind: "memory"})
	assert.NoError(t, err)
	assert.IsType(t, &MockStore{}, s)

	_, err = NewStore(config.StoreConf{Kind: "etcd"})
	assert.Error(t, err)
}

func TestServices(t *testing.T) {
	serviceMap = map[string]Service{}
	Register(&MockService{})
	assert.Equal(t, []string{"abc"}, Services())
	assert.Panics(t, func() { Register(&MockService{}) })
	assert.Error(t, Launch([]string{"missing"}))
}

func TestHeartbeatEventsIndependent(t *testing.T) {
	started := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	first := heartbeatEvent("sat", started, started.Add(time.Minute))
	second := heartbeatEvent("sat", started, started.Add(2*time.Minute))

	assert.Equal(t, "heartbeat", first.Topic)
	assert.True(t, first.Retained)
	assert.Equal(t, "heartbeat.sat", first.StringField("device"))
	assert.Equal(t, 60, first.Fields["uptime"])
	assert.Equal(t, "1m", first.StringField("uptime_text"))
	assert.Equal(t, 120, second.Fields["uptime"])
}
