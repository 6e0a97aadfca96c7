package util

import "sync"

// Event is a one-way latch: Wait blocks until Set has been called.
type Event struct {
	cond *sync.Cond
	set  bool
}

func NewEvent() *Event {
	return &Event{
		cond: &sync.Cond{L: &sync.Mutex{}},
	}
}

// Set releases all waiters and reports whether the event was already set.
func (e *Event) Set() bool {
	e.cond.L.Lock()
	previous := e.set
	e.set = true
	e.cond.L.Unlock()
	e.cond.Broadcast()
	return previous
}

func (e *Event) IsSet() bool {
	e.cond.L.Lock()
	defer e.cond.L.Unlock()
	return e.set
}

func (e *Event) Wait() {
	e.cond.L.Lock()
	for !e.set {
		e.cond.Wait()
	}
	e.cond.L.Unlock()
}
