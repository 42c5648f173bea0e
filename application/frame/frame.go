// Package frame coalesces bursty work into display frames.
package frame

import (
	"element_grab/domain/interfaces"
)

// Coalescer runs at most one unit of work per frame.
// A Schedule call while one is pending is dropped; callers latch their latest
// values before calling, and the pending callback reads them when it runs.
type Coalescer struct {
	frames  interfaces.FrameScheduler
	pending bool
	cancel  func()
}

// NewCoalescer - creates a coalescer on top of frames
func NewCoalescer(frames interfaces.FrameScheduler) *Coalescer {
	return &Coalescer{frames: frames}
}

// Schedule - requests f on the next frame unless work is already pending
func (c *Coalescer) Schedule(f func()) {
	if c.pending {
		return
	}
	c.pending = true
	c.cancel = c.frames.RequestTick(func() {
		c.pending = false
		c.cancel = nil
		f()
	})
}

// Pending - reports whether work is scheduled
func (c *Coalescer) Pending() bool {
	return c.pending
}

// Cancel - drops the pending work, if any
func (c *Coalescer) Cancel() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.pending = false
}

// Manual is a FrameScheduler driven by explicit Tick calls
type Manual struct {
	pending []*manualEntry
}

type manualEntry struct {
	f         func()
	cancelled bool
}

// NewManual - creates a manual frame scheduler
func NewManual() *Manual {
	return &Manual{}
}

// RequestTick - queues f for the next Tick
func (m *Manual) RequestTick(f func()) func() {
	entry := &manualEntry{f: f}
	m.pending = append(m.pending, entry)
	return func() {
		entry.cancelled = true
		for i, queued := range m.pending {
			if queued == entry {
				m.pending = append(m.pending[:i:i], m.pending[i+1:]...)
				return
			}
		}
	}
}

// Tick - runs the callbacks queued before this call.
// Callbacks they request wait for the next Tick.
func (m *Manual) Tick() {
	batch := m.pending
	m.pending = nil
	for _, entry := range batch {
		if entry.cancelled {
			continue
		}
		entry.cancelled = true
		entry.f()
	}
}

// Advance - runs n ticks
func (m *Manual) Advance(n int) {
	for i := 0; i < n; i++ {
		m.Tick()
	}
}

// Pending - returns the number of queued callbacks
func (m *Manual) Pending() int {
	return len(m.pending)
}
