package modem

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort answers each command written with the lines reply returns.
type fakePort struct {
	mu      sync.Mutex
	in      chan string
	written []string
	reply   func(cmd string) []string
}

func newFakePort(reply func(cmd string) []string) *fakePort {
	return &fakePort{in: make(chan string, 64), reply: reply}
}

func (self *fakePort) Read(b []byte) (int, error) {
	line, ok := <-self.in
	if !ok {
		return 0, io.EOF
	}
	return copy(b, line+"\r\n"), nil
}

func (self *fakePort) Write(b []byte) (int, error) {
	cmd := strings.TrimRight(string(b), "\r")
	self.mu.Lock()
	self.written = append(self.written, cmd)
	self.mu.Unlock()
	for _, line := range self.reply(cmd) {
		self.in <- line
	}
	return len(b), nil
}

func (self *fakePort) Close() error {
	close(self.in)
	return nil
}

func (self *fakePort) Written() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]string(nil), self.written...)
}

func ok(string) []string { return []string{"OK"} }

func TestSendOK(t *testing.T) {
	port := NewPort(newFakePort(func(cmd string) []string {
		return []string{cmd, "+CGMI: acme", "OK"}
	}))
	lines, err := port.Send("AT+CGMI")
	assert.NoError(t, err)
	assert.Equal(t, []string{"+CGMI: acme"}, lines)
}

func TestSendError(t *testing.T) {
	port := NewPort(newFakePort(func(string) []string { return []string{"+CME ERROR: 3"} }))
	_, err := port.Send("AT+CUSATT=\"00\"")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "+CME ERROR: 3")
	}
}

func TestSendTimeout(t *testing.T) {
	port := NewPort(newFakePort(func(string) []string { return nil }))
	port.Timeout = 10 * time.Millisecond
	_, err := port.Send("AT")
	assert.Equal(t, ErrTimeout, err)
}

func TestUnsolicitedMidCommand(t *testing.T) {
	port := NewPort(newFakePort(func(string) []string {
		return []string{"+CUSATEND", "OK"}
	}))
	_, err := port.Send("AT+CUSATE=\"D3\"")
	require.NoError(t, err)
	select {
	case line := <-port.OOB:
		assert.Equal(t, "+CUSATEND", line)
	case <-time.After(time.Second):
		t.Fatal("no unsolicited line")
	}
}

func TestClosedPort(t *testing.T) {
	fake := newFakePort(ok)
	port := NewPort(fake)
	port.Close()
	_, open := <-port.OOB
	assert.False(t, open)
}
