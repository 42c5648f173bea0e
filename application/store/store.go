// Package store is a single-writer reactive state container.
//
// SetState is the only way to change state. Listeners run synchronously, in
// subscription order, on the goroutine that called SetState; a store is not safe
// for concurrent use and is meant to be owned by one event loop.
package store

import (
	"github.com/sirupsen/logrus"
)

type subscription[T any] struct {
	id      int
	removed bool
	// notify is called with the previous and next state
	notify func(next, prev T)
}

// Store holds a value of type T and broadcasts its changes
type Store[T any] struct {
	initial T
	state   T
	subs    []*subscription[T]
	nextID  int
	logger  *logrus.Logger
}

// New - creates a store holding initial
func New[T any](initial T) *Store[T] {
	return &Store[T]{
		initial: initial,
		state:   initial,
		logger:  logrus.StandardLogger(),
	}
}

// WithLogger - sets the logger used to report panicking listeners
func (s *Store[T]) WithLogger(logger *logrus.Logger) *Store[T] {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// State - returns the current state
func (s *Store[T]) State() T {
	return s.state
}

// InitialState - returns the state the store was created with
func (s *Store[T]) InitialState() T {
	return s.initial
}

// SetState - replaces the state with reducer(current) and notifies subscribers.
// Nested calls from a listener are applied immediately, not batched.
func (s *Store[T]) SetState(reducer func(T) T) T {
	prev := s.state
	next := reducer(prev)
	s.state = next

	// Snapshot so subscriptions added during the broadcast wait for the next one.
	subs := make([]*subscription[T], len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		if sub.removed {
			continue
		}
		s.call(sub, next, prev)
	}

	return s.state
}

// Patch - applies mutate to a copy of the current state and stores it.
// The copy is shallow: reference fields must be replaced, not modified.
func (s *Store[T]) Patch(mutate func(*T)) T {
	return s.SetState(func(state T) T {
		mutate(&state)
		return state
	})
}

// Subscribe - registers a listener called after every SetState
func (s *Store[T]) Subscribe(listener func(next, prev T)) (unsubscribe func()) {
	return s.add(listener)
}

// Select - registers a listener called only when selector's result changes (compared with ==)
func Select[T any, U comparable](s *Store[T], selector func(T) U, listener func(next, prev U)) (unsubscribe func()) {
	return SelectFunc(s, selector, func(a, b U) bool { return a == b }, listener)
}

// SelectFunc - like Select with a custom equality
func SelectFunc[T any, U any](s *Store[T], selector func(T) U, equal func(a, b U) bool, listener func(next, prev U)) (unsubscribe func()) {
	last := selector(s.state)
	return s.add(func(next, _ T) {
		value := selector(next)
		if equal(last, value) {
			return
		}
		prev := last
		last = value
		listener(value, prev)
	})
}

func (s *Store[T]) add(notify func(next, prev T)) func() {
	sub := &subscription[T]{id: s.nextID, notify: notify}
	s.nextID++
	s.subs = append(s.subs, sub)

	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				break
			}
		}
	}
}

func (s *Store[T]) call(sub *subscription[T], next, prev T) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("subscription", sub.id).Errorf("store listener panicked: %v", r)
		}
	}()
	sub.notify(next, prev)
}

// Len - returns the number of live subscriptions
func (s *Store[T]) Len() int {
	return len(s.subs)
}
