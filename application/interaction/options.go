package interaction

import (
	"runtime"
	"time"

	"element_grab/domain/entities"
	"element_grab/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultKeyHoldDuration is how long the hotkey must be held before the overlay shows
const DefaultKeyHoldDuration = 500 * time.Millisecond

// Options configures one activation; it does not change afterwards
type Options struct {
	// Enabled false makes Activate a no-op
	Enabled bool
	// Hotkey lists the keys that must all be held; empty uses DefaultHotkey
	Hotkey entities.Hotkey
	// KeyHoldDuration <= 0 uses DefaultKeyHoldDuration
	KeyHoldDuration time.Duration
	// Adapter, when set, receives the grabbed text after delivery
	Adapter interfaces.Adapter
}

// DefaultOptions - returns enabled options with the platform hotkey
func DefaultOptions() Options {
	return Options{
		Enabled:         true,
		Hotkey:          DefaultHotkey(runtime.GOOS),
		KeyHoldDuration: DefaultKeyHoldDuration,
	}
}

// DefaultHotkey - returns Meta+C on macOS and Control+C elsewhere
func DefaultHotkey(goos string) entities.Hotkey {
	if goos == "darwin" {
		return entities.Hotkey{"Meta", "C"}
	}
	return entities.Hotkey{"Control", "C"}
}

func (o Options) withDefaults() Options {
	if len(o.Hotkey) == 0 {
		o.Hotkey = DefaultHotkey(runtime.GOOS)
	}
	if o.KeyHoldDuration <= 0 {
		o.KeyHoldDuration = DefaultKeyHoldDuration
	}
	return o
}

// Deps holds the collaborators of a controller. All of them except Redactor,
// OnGrab and Logger are required.
type Deps struct {
	// Clock timers must run their callbacks on the controller's goroutine
	Clock interfaces.Clock
	// Frames must run its callbacks on the controller's goroutine
	Frames interfaces.FrameScheduler
	// Runner runs the grab's describe and deliver steps
	Runner interfaces.Runner
	// Events delivers page events on the controller's goroutine
	Events interfaces.EventTarget

	Page      interfaces.Page
	Overlay   interfaces.Overlay
	Describer interfaces.Describer
	Deliverer interfaces.Deliverer
	Redactor  interfaces.Redactor

	// OnGrab is called on the controller's goroutine once per settled grab
	OnGrab func(entities.GrabResult)

	Logger *logrus.Logger
}
