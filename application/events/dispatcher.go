// Package events keeps page event listeners and dispatches events to them.
package events

import (
	"element_grab/domain/entities"
)

type listener struct {
	fn      func(entities.Event)
	removed bool
}

// Dispatcher is an EventTarget; it is used from the event loop goroutine only
type Dispatcher struct {
	listeners map[entities.EventKind][]*listener
}

// NewDispatcher - creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[entities.EventKind][]*listener)}
}

// AddListener - registers fn for kind and returns its removal function
func (d *Dispatcher) AddListener(kind entities.EventKind, fn func(entities.Event)) func() {
	l := &listener{fn: fn}
	d.listeners[kind] = append(d.listeners[kind], l)

	return func() {
		if l.removed {
			return
		}
		l.removed = true
		current := d.listeners[kind]
		for i, existing := range current {
			if existing == l {
				d.listeners[kind] = append(current[:i:i], current[i+1:]...)
				break
			}
		}
		if len(d.listeners[kind]) == 0 {
			delete(d.listeners, kind)
		}
	}
}

// Dispatch - calls the listeners of ev.Kind in registration order.
// A mouse event whose propagation was stopped skips the remaining listeners.
func (d *Dispatcher) Dispatch(ev entities.Event) {
	current := d.listeners[ev.Kind]
	if len(current) == 0 {
		return
	}
	batch := make([]*listener, len(current))
	copy(batch, current)

	for _, l := range batch {
		if l.removed {
			continue
		}
		l.fn(ev)
		if ev.Mouse != nil && ev.Mouse.PropagationStopped() {
			return
		}
	}
}

// Count - returns the number of listeners registered for kind
func (d *Dispatcher) Count(kind entities.EventKind) int {
	return len(d.listeners[kind])
}

// Total - returns the number of listeners across all kinds
func (d *Dispatcher) Total() int {
	total := 0
	for _, ls := range d.listeners {
		total += len(ls)
	}
	return total
}
