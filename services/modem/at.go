package modem

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
	"go.uber.org/zap"
)

var ErrTimeout = errors.New("timeout waiting for modem")

// OpenPort opens the serial device. Replaced in tests.
var OpenPort = func(config *serial.Config) (io.ReadWriteCloser, error) {
	return serial.OpenPort(config)
}

// Unsolicited result codes delivered on OOB, even mid-command.
var unsolicited = []string{"+CUSATP:", "+CUSATEND", "+CUSD:", "RING", "+CRING:"}

var finals = []string{"OK", "ERROR", "+CME ERROR:", "+CMS ERROR:", "NO CARRIER", "BUSY", "NO ANSWER", "NO DIALTONE"}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

type result struct {
	lines []string
	err   error
}

// Port is an AT command channel: one command in flight at a time, with
// unsolicited lines split out onto OOB.
type Port struct {
	OOB     chan string
	Timeout time.Duration

	port io.ReadWriteCloser
	mu   sync.Mutex
	tx   chan string
	rx   chan result
}

func NewPort(port io.ReadWriteCloser) *Port {
	self := &Port{
		OOB:     make(chan string, 64),
		Timeout: 10 * time.Second,
		port:    port,
		tx:      make(chan string),
		rx:      make(chan result, 1),
	}
	go self.listen()
	return self
}

func (self *Port) Close() error {
	return self.port.Close()
}

func lineChannel(r io.Reader) chan string {
	ret := make(chan string)
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if line == "" {
				continue
			}
			ret <- line
		}
		close(ret)
	}()
	return ret
}

func finalError(line string) error {
	if line == "OK" {
		return nil
	}
	return errors.New(line)
}

func (self *Port) listen() {
	in := lineChannel(self.port)
	var echo string
	var lines []string
	pending := false
	for {
		select {
		case line, ok := <-in:
			if !ok {
				close(self.OOB)
				return
			}
			switch {
			case line == echo:
				// command echo
			case hasAnyPrefix(line, unsolicited):
				self.OOB <- line
			case !pending:
				if hasAnyPrefix(line, finals) && line != "OK" {
					// a call dropping outside a command
					self.OOB <- line
				} else {
					zap.S().Debugw("unexpected modem line", "line", line)
				}
			case hasAnyPrefix(line, finals):
				self.rx <- result{lines, finalError(line)}
				lines = nil
				pending = false
			default:
				lines = append(lines, line)
			}
		case cmd := <-self.tx:
			pending = true
			lines = nil
			echo = cmd
			if _, err := self.port.Write([]byte(cmd + "\r")); err != nil {
				self.rx <- result{nil, errors.Wrap(err, "writing to modem")}
				pending = false
			}
		}
	}
}

// Send writes an AT command and waits for its final result code. The
// intermediate response lines are returned.
func (self *Port) Send(cmd string) ([]string, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	// drop the answer to a command that timed out
	select {
	case <-self.rx:
	default:
	}
	zap.S().Debugw("modem send", "cmd", cmd)
	self.tx <- cmd
	select {
	case r := <-self.rx:
		return r.lines, errors.Wrap(r.err, cmd)
	case <-time.After(self.Timeout):
		return nil, ErrTimeout
	}
}
