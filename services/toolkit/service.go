// Service bridging the modem's SIM Application Toolkit engine and the
// applications that present and carry out proactive commands.
//
// Decoded proactive commands arrive on sat/command. User answers, execution
// results and display status arrive on sat/confirm, sat/exec and
// sat/display, keyed by the command id announced on sat/notify. Terminal
// responses and envelopes are published with their BER-TLV encoding for the
// modem service to forward to the SIM.
package toolkit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/barnybug/gosat/pubsub"
	"github.com/barnybug/gosat/sat"
	"github.com/barnybug/gosat/services"
	"github.com/barnybug/gosat/util"
)

// InFlight describes a stored command for the status query.
type InFlight struct {
	ID         int             `json:"id"`
	Owner      string          `json:"owner"`
	Type       sat.CommandType `json:"type"`
	Dispatched bool            `json:"dispatched"`
	Since      time.Time       `json:"since"`
}

// Service sat
type Service struct {
	// Store overrides the configured store.
	Store services.Store

	log     *zap.Logger
	manager *sat.Manager
	busy    *busyState

	mu     sync.Mutex
	status []InFlight
	events []sat.EventType
	seen   map[int]time.Time
}

func (self *Service) ID() string {
	return "sat"
}

func (self *Service) Init() error {
	if self.Store == nil {
		store, err := services.NewStore(services.Config.Store)
		if err != nil {
			return err
		}
		self.Store = store
	}
	self.log = zap.L().Named("sat")
	self.busy = &busyState{}
	self.seen = map[int]time.Time{}

	conf := services.Config.Sat
	self.manager = sat.NewManager(sat.Config{
		Capacity:        conf.Capacity,
		IconSupported:   conf.Icons,
		DeferSessionEnd: conf.DeferSessionEnd,
		DisplayDuration: conf.DisplayDuration.Duration,
		HelpDuration:    conf.HelpDuration.Duration,
		ToneDuration:    conf.ToneDuration.Duration,
		Language:        conf.Language,
		Logger:          self.log,
	}, &sink{pub: services.Publisher, log: self.log}, self.Store, self.busy)
	return nil
}

func (self *Service) Run() error {
	events := services.Subscriber.Subscribe(pubsub.Exacts(Topics...)...)
	for ev := range events {
		self.handle(ev)
		self.snapshot()
	}
	return nil
}

func (self *Service) handle(ev *pubsub.Event) {
	if owner := ev.Owner(); owner != "" && !services.Config.Sat.Serves(owner) {
		return
	}

	var err error
	switch ev.Topic {
	case TopicCommand:
		err = self.command(ev)
	case TopicConfirm:
		err = self.confirm(ev)
	case TopicExec:
		err = self.exec(ev)
	case TopicDisplay:
		var msg displayMsg
		if err = ev.Decode(&msg); err == nil {
			err = self.manager.DisplayStatus(msg.ID, msg.Displayed)
		}
	case TopicEvent:
		err = self.event(ev)
	case TopicMenu:
		var msg menuMsg
		if err = ev.Decode(&msg); err == nil {
			_, err = self.manager.MenuSelection(msg.Owner, msg.Item, msg.Help)
		}
	case TopicReset:
		self.manager.Reset(ev.Owner())
	case TopicEnd:
		self.manager.EndSession(ev.Owner())
	case "call", "ss":
		self.busy.update(ev)
	}
	if err != nil {
		self.log.Warn("handling event", zap.String("topic", ev.Topic), zap.Error(err))
	}
}

func (self *Service) command(ev *pubsub.Event) error {
	cmd, malformed, err := decodeCommand(ev)
	if err != nil {
		return err
	}
	if malformed {
		self.log.Warn("malformed command params", zap.Stringer("type", cmd.Type))
	}
	self.manager.Handle(cmd)
	return nil
}

func (self *Service) confirm(ev *pubsub.Event) error {
	var msg confirmMsg
	if err := ev.Decode(&msg); err != nil {
		return err
	}
	data, err := msg.bytes()
	if err != nil {
		return err
	}
	return self.manager.Confirm(msg.ID, msg.Confirm, data)
}

func (self *Service) exec(ev *pubsub.Event) error {
	var msg execMsg
	if err := ev.Decode(&msg); err != nil {
		return err
	}
	r, err := msg.result()
	if err != nil {
		return err
	}
	return self.manager.Exec(msg.ID, msg.Type, r)
}

func (self *Service) event(ev *pubsub.Event) error {
	var msg eventMsg
	if err := ev.Decode(&msg); err != nil {
		return err
	}
	devs := sat.Devices{Src: msg.Src, Dest: msg.Dest}
	return self.manager.Event(msg.Owner, msg.Event, devs, msg.EventPayload)
}

// snapshot copies the manager state read by the query handlers.
func (self *Service) snapshot() {
	now := time.Now()
	entries := self.manager.InFlight()
	status := make([]InFlight, len(entries))
	seen := map[int]time.Time{}

	self.mu.Lock()
	defer self.mu.Unlock()
	for i, e := range entries {
		since, ok := self.seen[e.ID]
		if !ok {
			since = now
		}
		seen[e.ID] = since
		status[i] = InFlight{
			ID:         e.ID,
			Owner:      e.Owner,
			Type:       e.Command.Type,
			Dispatched: e.Dispatched,
			Since:      since,
		}
	}
	self.seen = seen
	self.status = status
	self.events = self.manager.Events()
}

func (self *Service) queryStatus(q services.Question) services.Answer {
	self.mu.Lock()
	defer self.mu.Unlock()
	if len(self.status) == 0 {
		return services.Answer{Text: "No commands in flight", Json: []InFlight{}}
	}
	lines := []string{}
	for _, s := range self.status {
		line := fmt.Sprintf("%d %s %s for %s", s.ID, s.Owner, s.Type, util.FriendlyDuration(time.Since(s.Since)))
		if s.Dispatched {
			line += " (dispatched)"
		}
		lines = append(lines, line)
	}
	status := make([]InFlight, len(self.status))
	copy(status, self.status)
	return services.Answer{Text: strings.Join(lines, "\n"), Json: status}
}

func (self *Service) queryEvents(q services.Question) services.Answer {
	self.mu.Lock()
	defer self.mu.Unlock()
	names := []string{}
	for _, e := range self.events {
		names = append(names, e.String())
	}
	if len(names) == 0 {
		return services.Answer{Text: "No events enabled", Json: names}
	}
	return services.Answer{Text: strings.Join(names, ", "), Json: names}
}

func (self *Service) querySettings(q services.Question) services.Answer {
	nodes, err := self.Store.GetRecursive("sat")
	if err != nil {
		return services.Answer{Text: "error: " + err.Error()}
	}
	lines := []string{}
	values := map[string]string{}
	for _, n := range nodes {
		lines = append(lines, fmt.Sprintf("%s=%s", n.Key, n.Value))
		values[n.Key] = n.Value
	}
	return services.Answer{Text: strings.Join(lines, "\n"), Json: values}
}

func (self *Service) QueryHandlers() services.QueryHandlers {
	return services.QueryHandlers{
		"status":   self.queryStatus,
		"events":   self.queryEvents,
		"settings": self.querySettings,
		"help": services.StaticHandler("" +
			"status: commands awaiting a response\n" +
			"events: events enabled by the SIM\n" +
			"settings: stored sat settings\n"),
	}
}
