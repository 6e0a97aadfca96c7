package sat

import (
	"sort"

	"github.com/pkg/errors"
)

// DefaultCapacity is the number of proactive commands that may be in flight.
const DefaultCapacity = 10

var (
	ErrStoreFull = errors.New("correlation store full")
	ErrNotFound  = errors.New("command id not found")
)

// Entry is a proactive command awaiting its terminal response.
type Entry struct {
	ID      int     `json:"id"`
	Owner   string  `json:"owner"`
	Command Command `json:"command"`
	// NotiRequired marks commands the user has been shown.
	NotiRequired bool `json:"noti_required"`
	// SessionEnd marks entries kept after a reset only to notify the UI.
	SessionEnd bool `json:"session_end,omitempty"`
	// Responded is set once the terminal response has gone out early.
	Responded  bool `json:"responded,omitempty"`
	Dispatched bool `json:"dispatched,omitempty"`
}

// Store correlates command ids with in-flight commands. The id encodes the
// slot index and a per-slot generation, so an id handed out for a slot that
// has since been reused no longer resolves.
//
// Store is not safe for concurrent use.
type Store struct {
	slots []*Entry
	gens  []int
}

// NewStore returns a store holding at most capacity commands.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		slots: make([]*Entry, capacity),
		gens:  make([]int, capacity),
	}
}

func (s *Store) Capacity() int {
	return len(s.slots)
}

// Len is the number of occupied slots.
func (s *Store) Len() int {
	n := 0
	for _, e := range s.slots {
		if e != nil {
			n++
		}
	}
	return n
}

func (s *Store) slot(id int) int {
	if id < 0 {
		return -1
	}
	return id % len(s.slots)
}

// Enqueue stores cmd in the lowest free slot and returns its id.
func (s *Store) Enqueue(cmd Command, notiRequired bool) (int, error) {
	for i, e := range s.slots {
		if e != nil {
			continue
		}
		id := s.gens[i]*len(s.slots) + i
		s.slots[i] = &Entry{
			ID:           id,
			Owner:        cmd.Owner,
			Command:      cmd,
			NotiRequired: notiRequired,
		}
		return id, nil
	}
	return -1, ErrStoreFull
}

func (s *Store) lookup(id int) (int, *Entry) {
	i := s.slot(id)
	if i < 0 {
		return -1, nil
	}
	e := s.slots[i]
	if e == nil || e.ID != id || e.SessionEnd {
		return -1, nil
	}
	return i, e
}

// Peek returns the entry for id without removing it.
func (s *Store) Peek(id int) (*Entry, error) {
	_, e := s.lookup(id)
	if e == nil {
		return nil, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	return e, nil
}

// Dequeue removes and returns the entry for id.
func (s *Store) Dequeue(id int) (*Entry, error) {
	i, e := s.lookup(id)
	if e == nil {
		return nil, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	s.release(i)
	return e, nil
}

func (s *Store) release(i int) {
	s.slots[i] = nil
	s.gens[i]++
}

// RemoveAllFor discards every entry belonging to owner. With deferSessionEnd
// set, entries the user has been shown are kept, marked for a session end
// notification, until TakeSessionEnd collects them. It returns the number of
// entries discarded.
func (s *Store) RemoveAllFor(owner string, deferSessionEnd bool) int {
	n := 0
	for i, e := range s.slots {
		if e == nil || e.Owner != owner || e.SessionEnd {
			continue
		}
		if deferSessionEnd && e.NotiRequired {
			e.SessionEnd = true
			continue
		}
		s.release(i)
		n++
	}
	return n
}

// TakeSessionEnd removes and returns the entries of owner marked by
// RemoveAllFor.
func (s *Store) TakeSessionEnd(owner string) []*Entry {
	var ret []*Entry
	for i, e := range s.slots {
		if e != nil && e.Owner == owner && e.SessionEnd {
			ret = append(ret, e)
			s.release(i)
		}
	}
	return ret
}

// Entries returns live entries ordered by id.
func (s *Store) Entries() []*Entry {
	var ret []*Entry
	for _, e := range s.slots {
		if e != nil && !e.SessionEnd {
			ret = append(ret, e)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}
