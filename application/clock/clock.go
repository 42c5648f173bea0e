// Package clock provides a manually advanced Clock.
package clock

import (
	"sort"
	"time"

	"element_grab/domain/interfaces"
)

// Manual is a Clock whose time only moves on Advance
type Manual struct {
	now    time.Time
	nextID int
	timers []*manualTimer
}

type manualTimer struct {
	id      int
	at      time.Time
	f       func()
	stopped bool
	clock   *Manual
}

// NewManual - creates a clock starting at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now - returns the current manual time
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc - registers f to run once the clock has advanced by d
func (m *Manual) AfterFunc(d time.Duration, f func()) interfaces.Timer {
	t := &manualTimer{id: m.nextID, at: m.now.Add(d), f: f, clock: m}
	m.nextID++
	m.timers = append(m.timers, t)
	return t
}

// Advance - moves time forward by d, running due timers in deadline order
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.at
		next.stopped = true
		m.remove(next)
		next.f()
	}
	m.now = target
}

// Pending - returns the number of timers still waiting
func (m *Manual) Pending() int {
	return len(m.timers)
}

func (m *Manual) nextDue(limit time.Time) *manualTimer {
	due := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.at.After(limit) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].id < due[j].id
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

func (m *Manual) remove(t *manualTimer) {
	for i, existing := range m.timers {
		if existing == t {
			m.timers = append(m.timers[:i:i], m.timers[i+1:]...)
			return
		}
	}
}

// Stop - cancels the timer
func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.clock.remove(t)
	return true
}
