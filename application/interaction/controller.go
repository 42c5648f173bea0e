// Package interaction drives the overlay mode from keyboard, pointer and page events
// and turns a confirmed click into a grab.
//
// A Controller is not safe for concurrent use. Every callback it registers, page
// events, timers and frames included, must be delivered on one goroutine; the
// eventloop package provides such a goroutine.
package interaction

import (
	"context"

	"element_grab/application/frame"
	"element_grab/application/hittest"
	"element_grab/application/hotkeys"
	"element_grab/application/machine"
	"element_grab/application/store"
	"element_grab/domain/entities"

	"github.com/sirupsen/logrus"
)

// Controller owns the store and the transient UI of one activation
type Controller struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options
	deps   Deps
	logger *logrus.Logger

	store *store.Store[entities.State]
	hits  *hittest.HitTester

	active   bool
	cleanups []func()

	render    *frame.Coalescer
	mouseMove *frame.Coalescer
	scroll    *frame.Coalescer
	resize    *frame.Coalescer

	pendingMouseX float64
	pendingMouseY float64
	cancelLoop    func()

	watcherCancel func()
	progress      progressState

	hovered     *entities.Element
	lastGrabbed *entities.Element
	copying     bool

	selection  selectionState
	label      entities.Label
	indicators *indicatorSet
}

// Activate - creates the store, registers every listener and starts the render loop.
// With opts.Enabled false it returns an inactive controller and registers nothing.
func Activate(ctx context.Context, opts Options, deps Deps) *Controller {
	if !opts.Enabled {
		return &Controller{}
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(ctx)

	c := &Controller{
		ctx:           ctx,
		cancel:        cancel,
		opts:          opts,
		deps:          deps,
		logger:        deps.Logger,
		store:         store.New(entities.NewState()).WithLogger(deps.Logger),
		hits:          hittest.New(deps.Page, deps.Logger),
		active:        true,
		render:        frame.NewCoalescer(deps.Frames),
		mouseMove:     frame.NewCoalescer(deps.Frames),
		scroll:        frame.NewCoalescer(deps.Frames),
		resize:        frame.NewCoalescer(deps.Frames),
		pendingMouseX: entities.OffscreenPosition,
		pendingMouseY: entities.OffscreenPosition,
		selection:     newSelectionState(),
	}
	c.indicators = newIndicatorSet(c)

	c.cleanups = append(c.cleanups,
		store.Select(c.store, func(s entities.State) *entities.KeySet {
			return s.PressedKeys
		}, c.handleKeyStateChange),
		store.Select(c.store, func(s entities.State) entities.OverlayMode {
			return s.OverlayMode
		}, func(mode, _ entities.OverlayMode) {
			c.mirrorMode(mode)
		}),
		c.store.Subscribe(func(_, _ entities.State) {
			c.scheduleRender()
		}),
	)

	events := deps.Events
	c.cleanups = append(c.cleanups,
		hotkeys.NewTracker(c.store, deps.Clock).Attach(events),
		events.AddListener(entities.EventMouseMove, c.handleMouseMove),
		events.AddListener(entities.EventMouseDown, c.handleMouseDown),
		events.AddListener(entities.EventClick, c.handleClick),
		events.AddListener(entities.EventScroll, c.handleScroll),
		events.AddListener(entities.EventResize, c.handleResize),
		events.AddListener(entities.EventVisibilityChange, c.handleVisibilityChange),
	)

	c.mirrorMode(entities.ModeHidden)
	c.continuousRender()

	c.logger.WithFields(logrus.Fields{
		"hotkey":  opts.Hotkey.String(),
		"hold_ms": opts.KeyHoldDuration.Milliseconds(),
		"adapter": adapterName(opts),
	}).Info("element grab activated")

	return c
}

// Deactivate - removes every listener, timer and frame callback and clears the overlay.
// Calling it more than once is a no-op.
func (c *Controller) Deactivate() {
	if c == nil || !c.active {
		return
	}
	c.active = false

	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil

	c.stopWatcher()
	c.stopProgress()

	if c.cancelLoop != nil {
		c.cancelLoop()
		c.cancelLoop = nil
	}
	c.render.Cancel()
	c.mouseMove.Cancel()
	c.scroll.Cancel()
	c.resize.Cancel()

	c.indicators.clear()
	c.hideLabel()
	c.hideSelection()
	c.hovered = nil
	c.lastGrabbed = nil
	c.store.Patch(func(s *entities.State) {
		s.OverlayMode = entities.ModeHidden
	})
	c.mirrorMode(entities.ModeHidden)

	// Grabs still running on the runner stop before their next side effect.
	c.cancel()

	c.logger.Info("element grab deactivated")
}

// Active - reports whether the controller is still listening
func (c *Controller) Active() bool {
	return c != nil && c.active
}

// Store - returns the activation's store; nil for an inactive controller
func (c *Controller) Store() *store.Store[entities.State] {
	if c == nil {
		return nil
	}
	return c.store
}

// Mode - returns the current overlay mode
func (c *Controller) Mode() entities.OverlayMode {
	if c == nil || c.store == nil {
		return entities.ModeHidden
	}
	return c.store.State().OverlayMode
}

// IsActivationHotkeyPressed - reports whether every key of the hotkey is held
func (c *Controller) IsActivationHotkeyPressed() bool {
	if c == nil || c.store == nil {
		return false
	}
	return hotkeys.AllPressed(c.store.State().PressedKeys, c.opts.Hotkey)
}

// Hovered - returns the element under the pointer as of the last frame
func (c *Controller) Hovered() (entities.Element, bool) {
	if c == nil || c.hovered == nil {
		return entities.Element{}, false
	}
	return *c.hovered, true
}

// Copying - reports whether a grab is in flight
func (c *Controller) Copying() bool {
	return c != nil && c.copying
}

func (c *Controller) transition(input machine.Input) {
	mode := c.store.State().OverlayMode
	next, changed := machine.Transition(mode, input)
	if !changed {
		return
	}
	c.logger.WithFields(logrus.Fields{
		"from":  mode,
		"to":    next,
		"input": input.String(),
	}).Debug("overlay mode changed")
	c.store.Patch(func(s *entities.State) {
		s.OverlayMode = next
	})
}

func (c *Controller) handleKeyStateChange(pressed, _ *entities.KeySet) {
	if pressed.Has(entities.KeyEscape) || pressed.Has(entities.KeyEscapeShort) {
		keys := append([]string{entities.KeyEscape, entities.KeyEscapeShort}, c.opts.Hotkey...)
		next, _ := machine.Transition(c.store.State().OverlayMode, machine.EscapePressed)
		c.store.SetState(func(s entities.State) entities.State {
			s = hotkeys.WithoutKeys(s, keys...)
			s.OverlayMode = next
			return s
		})
		c.stopWatcher()
		c.stopProgress()
		return
	}

	if !c.IsActivationHotkeyPressed() {
		c.stopWatcher()
		c.transition(machine.HotkeyReleased)
		c.stopProgress()
		return
	}

	if c.store.State().OverlayMode == entities.ModeHidden && c.watcherCancel == nil {
		c.startProgress()
		fired := false
		cancel := hotkeys.WatchKeyHeldFor(c.store, c.deps.Clock, c.opts.Hotkey, c.opts.KeyHoldDuration, func() {
			fired = true
			c.handleHeld()
		})
		if !fired {
			c.watcherCancel = cancel
		}
	}
}

func (c *Controller) handleHeld() {
	c.watcherCancel = nil
	c.transition(machine.HoldCompleted)
	c.stopProgress()
}

func (c *Controller) stopWatcher() {
	if c.watcherCancel != nil {
		c.watcherCancel()
		c.watcherCancel = nil
	}
}

func (c *Controller) handleMouseMove(ev entities.Event) {
	if ev.Mouse == nil {
		return
	}
	c.pendingMouseX = ev.Mouse.X
	c.pendingMouseY = ev.Mouse.Y
	c.mouseMove.Schedule(func() {
		c.store.Patch(func(s *entities.State) {
			s.MouseX = c.pendingMouseX
			s.MouseY = c.pendingMouseY
		})
	})
}

func (c *Controller) handleMouseDown(ev entities.Event) {
	if ev.Mouse == nil || ev.Mouse.Button != entities.PrimaryButton {
		return
	}
	if !machine.Intercepts(c.store.State().OverlayMode) {
		return
	}
	ev.Mouse.PreventDefault()
	ev.Mouse.StopPropagation()
	c.transition(machine.PrimaryMouseDown)
}

func (c *Controller) handleClick(ev entities.Event) {
	if ev.Mouse == nil {
		return
	}
	if !machine.Intercepts(c.store.State().OverlayMode) {
		return
	}
	ev.Mouse.PreventDefault()
	ev.Mouse.StopPropagation()
}

func (c *Controller) handleScroll(entities.Event) {
	c.scroll.Schedule(c.scheduleRender)
}

func (c *Controller) handleResize(entities.Event) {
	c.resize.Schedule(c.scheduleRender)
}

func (c *Controller) handleVisibilityChange(ev entities.Event) {
	if !ev.Hidden {
		return
	}
	c.indicators.clear()
	c.hideLabel()
	c.transition(machine.PageHidden)
}

func (c *Controller) mirrorMode(mode entities.OverlayMode) {
	if err := c.deps.Overlay.SetMode(c.ctx, mode); err != nil {
		c.logger.WithError(err).Debug("failed to mirror overlay mode")
	}
}

func adapterName(opts Options) string {
	if opts.Adapter == nil {
		return "none"
	}
	return opts.Adapter.Name()
}
