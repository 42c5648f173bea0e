package interfaces

import (
	"time"

	"element_grab/domain/entities"
)

// Timer is a pending one-shot callback
type Timer interface {
	// Stop cancels the callback; it reports false when the callback already ran or was stopped
	Stop() bool
}

// Clock provides wall-clock time and one-shot timers whose callbacks run on the event loop
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// FrameScheduler runs callbacks on the next display frame
type FrameScheduler interface {
	RequestTick(f func()) (cancel func())
}

// Runner runs blocking work off the event loop and then runs done on the loop
type Runner interface {
	Go(work func(), done func())
}

// EventTarget registers listeners for page events, like addEventListener
type EventTarget interface {
	AddListener(kind entities.EventKind, listener func(entities.Event)) (remove func())
}
