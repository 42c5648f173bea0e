// Package session runs element grab against one browser page.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"element_grab/application/eventloop"
	"element_grab/application/events"
	"element_grab/application/interaction"
	"element_grab/domain/entities"
	"element_grab/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const closeTimeout = 5 * time.Second

// Deps are the collaborators of a session
type Deps struct {
	Browser interfaces.Browser
	// Keys, when set, replaces the page as the source of key events
	Keys      interfaces.EventSource
	Deliverer interfaces.Deliverer
	Redactor  interfaces.Redactor
	// OnGrab is called on the event loop after every settled grab
	OnGrab func(entities.GrabResult)
	Logger *logrus.Logger
}

// Status is a snapshot of a running session
type Status struct {
	Active        bool
	Mode          entities.OverlayMode
	URL           string
	HotkeyPressed bool
	Hovered       *entities.Element
	Grabs         int
	LastGrab      *entities.GrabResult
}

type Session struct {
	opts       interaction.Options
	deps       Deps
	logger     *logrus.Logger
	loop       *eventloop.Loop
	events     *events.Dispatcher
	controller *interaction.Controller
	stops      []func()
	cancel     context.CancelFunc
	// grabs is only touched on the loop
	grabs []entities.GrabResult
}

// NewSession - creates a session; Start activates it
func NewSession(opts interaction.Options, deps Deps) *Session {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Session{
		opts:   opts,
		deps:   deps,
		logger: deps.Logger,
	}
}

// Start - starts the event loop, subscribes to page events and activates the controller
func (s *Session) Start(ctx context.Context) error {
	if s.cancel != nil {
		return errors.New("session already started")
	}
	if s.deps.Browser == nil || s.deps.Deliverer == nil {
		return errors.New("session needs a browser and a deliverer")
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.loop = eventloop.New(s.logger, 0)
	s.events = events.NewDispatcher()

	go func() {
		if err := s.loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.WithError(err).Error("event loop stopped")
		}
	}()

	stop, err := s.deps.Browser.Subscribe(loopCtx, s.forward(true))
	if err != nil {
		s.shutdown()
		return fmt.Errorf("failed to subscribe to page events: %w", err)
	}
	s.stops = append(s.stops, stop)

	if s.deps.Keys != nil {
		stop, err := s.deps.Keys.Subscribe(loopCtx, s.forward(false))
		if err != nil {
			s.shutdown()
			return fmt.Errorf("failed to subscribe to key events: %w", err)
		}
		s.stops = append(s.stops, stop)
	}

	err = s.loop.Call(ctx, func() {
		s.controller = interaction.Activate(loopCtx, s.opts, interaction.Deps{
			Clock:     s.loop,
			Frames:    s.loop,
			Runner:    s.loop,
			Events:    s.events,
			Page:      s.deps.Browser,
			Overlay:   s.deps.Browser,
			Describer: s.deps.Browser,
			Deliverer: s.deps.Deliverer,
			Redactor:  s.deps.Redactor,
			OnGrab:    s.recordGrab,
			Logger:    s.logger,
		})
	})
	if err != nil {
		s.shutdown()
		return fmt.Errorf("failed to activate: %w", err)
	}
	return nil
}

// forward posts events into the loop. With a separate key source, key events from the page are dropped.
func (s *Session) forward(fromPage bool) func(entities.Event) {
	return func(ev entities.Event) {
		if fromPage && s.deps.Keys != nil && isKeyEvent(ev.Kind) {
			return
		}
		s.loop.Post(func() {
			s.events.Dispatch(ev)
		})
	}
}

func isKeyEvent(kind entities.EventKind) bool {
	return kind == entities.EventKeyDown || kind == entities.EventKeyUp
}

func (s *Session) recordGrab(result entities.GrabResult) {
	s.grabs = append(s.grabs, result)

	entry := s.logger.WithFields(logrus.Fields{
		"tag": result.Target.Tag,
		"id":  result.Target.ID,
	})
	if result.Err != nil {
		entry.WithError(result.Err).Warn("Grab failed")
	} else {
		entry.WithField("chars", len(result.Text)).Info("Grab delivered")
	}

	if s.deps.OnGrab != nil {
		s.deps.OnGrab(result)
	}
}

// Open - navigates the page to url
func (s *Session) Open(ctx context.Context, url string) error {
	if err := s.deps.Browser.Navigate(ctx, url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// Status - returns a snapshot of the controller and the page
func (s *Session) Status(ctx context.Context) (Status, error) {
	var status Status
	if s.loop == nil {
		return status, errors.New("session not started")
	}

	err := s.loop.Call(ctx, func() {
		c := s.controller
		status.Active = c.Active()
		status.Mode = c.Mode()
		status.HotkeyPressed = c.IsActivationHotkeyPressed()
		if hovered, ok := c.Hovered(); ok {
			status.Hovered = &hovered
		}
		status.Grabs = len(s.grabs)
		if n := len(s.grabs); n > 0 {
			last := s.grabs[n-1]
			status.LastGrab = &last
		}
	})
	if err != nil {
		return status, fmt.Errorf("failed to read session status: %w", err)
	}

	url, err := s.deps.Browser.GetCurrentURL(ctx)
	if err != nil {
		s.logger.WithError(err).Debug("failed to read current url")
	}
	status.URL = url
	return status, nil
}

// Close - deactivates the controller and stops the event loop; the browser stays open
func (s *Session) Close() error {
	if s.cancel == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	err := s.loop.Call(ctx, func() {
		s.controller.Deactivate()
	})

	s.shutdown()
	if err != nil {
		return fmt.Errorf("failed to deactivate: %w", err)
	}
	return nil
}

func (s *Session) shutdown() {
	for i := len(s.stops) - 1; i >= 0; i-- {
		s.stops[i]()
	}
	s.stops = nil
	s.cancel()
	<-s.loop.Done()
	s.cancel = nil
}
