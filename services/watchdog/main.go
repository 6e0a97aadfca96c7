// Service for monitoring the other gosat services to ensure they're still
// alive. Watches the heartbeats of a configured list of services, and
// raises an alert if one has not been seen within the timeout.
package watchdog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/barnybug/gosat/pubsub"
	"github.com/barnybug/gosat/services"
	"github.com/barnybug/gosat/util"
)

type WatchedService struct {
	Name        string
	Timeout     time.Duration
	Alerted     bool
	LastAlerted time.Time
	LastEvent   time.Time
}

type WatchedServices []*WatchedService

func (self WatchedServices) Less(i, j int) bool {
	return self[i].LastEvent.Before(self[j].LastEvent)
}

func (self WatchedServices) Len() int {
	return len(self)
}

func (self WatchedServices) Swap(i, j int) {
	self[i], self[j] = self[j], self[i]
}

var repeatInterval = 12 * time.Hour

// Service watchdog
type Service struct {
	mu      sync.Mutex
	watched map[string]*WatchedService
	now     func() time.Time
}

func (self *Service) ID() string {
	return "watchdog"
}

func (self *Service) Init() error {
	if self.now == nil {
		self.now = time.Now
	}
	self.watched = map[string]*WatchedService{}
	now := self.now()
	conf := services.Config.Watchdog
	for _, name := range conf.Services {
		// give services grace period for first heartbeat
		self.watched["heartbeat."+name] = &WatchedService{
			Name:      name,
			Timeout:   conf.Timeout.Duration,
			LastEvent: now,
		}
	}
	return nil
}

func (self *Service) alert(name, state string, since time.Time) {
	zap.S().Infow("watchdog alert", "state", state, "service", name)
	conf := services.Config.Watchdog
	duration := self.now().Sub(since)
	message := fmt.Sprintf("%s: %s since %s (%s ago)", state, name,
		since.Local().Format(time.Stamp), util.ShortDuration(duration))
	services.Send("alert", pubsub.Fields{
		"source":  self.ID(),
		"target":  conf.Target,
		"remote":  conf.Remote,
		"message": message,
	})
}

func (self *Service) checkEvent(ev *pubsub.Event) {
	self.mu.Lock()
	defer self.mu.Unlock()
	w := self.watched[ev.StringField("device")]
	if w == nil {
		return
	}

	// recovered?
	if w.Alerted {
		w.Alerted = false
		self.alert(w.Name, "RECOVERED", w.LastEvent)
	}
	w.LastEvent = ev.Timestamp
}

func (self *Service) checkTimeouts() {
	self.mu.Lock()
	defer self.mu.Unlock()
	now := self.now()
	timeouts := []string{}
	var lastEvent time.Time
	for _, w := range self.watched {
		if w.Alerted {
			// check if should repeat
			if now.Sub(w.LastAlerted) > repeatInterval {
				timeouts = append(timeouts, w.Name)
				lastEvent = w.LastEvent
				w.LastAlerted = now
			}
		} else if now.Sub(w.LastEvent) > w.Timeout {
			// first alert
			timeouts = append(timeouts, w.Name)
			lastEvent = w.LastEvent
			w.Alerted = true
			w.LastAlerted = now
		}
	}

	// send a single alert for multiple services
	if len(timeouts) > 0 {
		sort.Strings(timeouts)
		self.alert(strings.Join(timeouts, ", "), "PROBLEM", lastEvent)
	}
}

func (self *Service) Run() error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	events := services.Subscriber.Subscribe(pubsub.Exact("heartbeat"))
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			self.checkEvent(ev)
		case <-ticker.C:
			self.checkTimeouts()
		}
	}
}

func (self *Service) QueryHandlers() services.QueryHandlers {
	return services.QueryHandlers{
		"status": services.TextHandler(self.queryStatus),
		"help":   services.StaticHandler("status: get status\n"),
	}
}

func (self *Service) queryStatus(q services.Question) string {
	self.mu.Lock()
	defer self.mu.Unlock()
	var list WatchedServices
	for _, w := range self.watched {
		list = append(list, w)
	}
	// return oldest last
	sort.Sort(sort.Reverse(list))

	var out string
	now := self.now()
	for _, w := range list {
		problem := ""
		if w.Alerted {
			problem = "PROBLEM"
		}
		ago := util.ShortDuration(now.Sub(w.LastEvent))
		out += fmt.Sprintf("- %-6s %s %s\n", ago, w.Name, problem)
	}
	return out
}
