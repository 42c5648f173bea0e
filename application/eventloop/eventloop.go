// Package eventloop runs the controller on a single goroutine.
//
// Everything that touches the store or the controller is posted into the loop:
// host events, timer callbacks, frame callbacks and the completion of background work.
// Loop implements interfaces.Clock, interfaces.FrameScheduler and interfaces.Runner.
package eventloop

import (
	"context"
	"time"

	"element_grab/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultFrameInterval approximates a 60 Hz display
const DefaultFrameInterval = 16 * time.Millisecond

const taskQueueSize = 256

// Loop is the single-threaded coordinator
type Loop struct {
	tasks         chan func()
	done          chan struct{}
	frameInterval time.Duration
	frames        []*frameRequest
	logger        *logrus.Logger
}

type frameRequest struct {
	f         func()
	cancelled bool
}

// New - creates a loop; frameInterval <= 0 uses DefaultFrameInterval
func New(logger *logrus.Logger, frameInterval time.Duration) *Loop {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Loop{
		tasks:         make(chan func(), taskQueueSize),
		done:          make(chan struct{}),
		frameInterval: frameInterval,
		logger:        logger,
	}
}

// Post - queues fn to run on the loop; it reports false once the loop has stopped.
// Safe for concurrent use.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call - runs fn on the loop and waits for it to return.
// It must not be called from the loop goroutine.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return context.Canceled
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return context.Canceled
	}
}

// Run - processes tasks and frames until ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			l.run("task", fn)
		case <-ticker.C:
			l.tick()
		}
	}
}

// Done - is closed when Run returns
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) tick() {
	batch := l.frames
	l.frames = nil
	for _, req := range batch {
		if req.cancelled {
			continue
		}
		req.cancelled = true
		l.run("frame", req.f)
	}
}

func (l *Loop) run(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.WithField("kind", kind).Errorf("event loop callback panicked: %v", r)
		}
	}()
	fn()
}

// Now - returns the wall-clock time
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc - runs f on the loop after d. Stop must be called from the loop;
// a stopped timer never runs even if its deadline already passed.
func (l *Loop) AfterFunc(d time.Duration, f func()) interfaces.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped {
				return
			}
			t.stopped = true
			f()
		})
	})
	return t
}

type loopTimer struct {
	timer   *time.Timer
	stopped bool
}

// Stop - cancels the timer
func (t *loopTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}

// RequestTick - runs f on the next frame. Must be called from the loop.
func (l *Loop) RequestTick(f func()) (cancel func()) {
	req := &frameRequest{f: f}
	l.frames = append(l.frames, req)
	return func() {
		req.cancelled = true
	}
}

// Go - runs work on its own goroutine, then done on the loop.
// done is dropped if the loop stopped in between.
func (l *Loop) Go(work func(), done func()) {
	go func() {
		work()
		if !l.Post(done) {
			l.logger.Debug("event loop stopped before background work completed")
		}
	}()
}
