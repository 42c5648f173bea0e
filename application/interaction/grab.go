package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"element_grab/domain/entities"
	"element_grab/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	// SucceededVisibleFor is how long the "Grabbed" indicator stays before fading
	SucceededVisibleFor = 1500 * time.Millisecond
	// IndicatorFadeFor is the fade-out time of a succeeded indicator
	IndicatorFadeFor = 200 * time.Millisecond
	// FlashFadeFor is how long the grabbed-element flash stays on screen
	FlashFadeFor = 300 * time.Millisecond

	processingText = "Grabbing…"
)

var (
	errNoDescriber = errors.New("no describer configured")
	errNoDeliverer = errors.New("no deliverer configured")
)

// grab runs describe and deliver off the controller goroutine and settles the
// indicator back on it.
func (c *Controller) grab(target entities.Element) {
	id := c.indicators.show(entities.IndicatorProcessing, target.Geometry(), processingText)
	ctx := c.ctx
	describer := c.deps.Describer
	deliverer := c.deps.Deliverer
	redactor := c.deps.Redactor
	adapter := c.opts.Adapter
	logger := c.logger

	var (
		text string
		err  error
	)
	c.deps.Runner.Go(func() {
		text, err = describeAndDeliver(ctx, target, describer, deliverer, redactor, adapter, logger)
	}, func() {
		c.copying = false
		if !c.active {
			return
		}
		c.settle(id, target, text, err)
	})
}

func (c *Controller) settle(id int, target entities.Element, text string, err error) {
	entry := c.logger.WithFields(logrus.Fields{
		"element": target.ID,
		"tag":     target.TagName(),
	})
	if err != nil {
		entry.WithError(err).Debug("grab failed")
		c.indicators.remove(id)
	} else {
		entry.WithField("chars", len(text)).Info("element grabbed")
		c.indicators.succeed(id, target.TagName())
	}
	if c.deps.OnGrab != nil {
		c.deps.OnGrab(entities.GrabResult{
			Target: target,
			Text:   text,
			Err:    err,
			At:     c.deps.Clock.Now(),
		})
	}
}

func describeAndDeliver(
	ctx context.Context,
	target entities.Element,
	describer interfaces.Describer,
	deliverer interfaces.Deliverer,
	redactor interfaces.Redactor,
	adapter interfaces.Adapter,
	logger *logrus.Logger,
) (string, error) {
	if describer == nil {
		return "", errNoDescriber
	}
	if deliverer == nil {
		return "", errNoDeliverer
	}

	text, err := describer.Describe(ctx, target)
	if err != nil {
		return "", fmt.Errorf("failed to describe element: %w", err)
	}

	if redactor != nil {
		var masked int
		text, masked = redactor.Redact(text)
		if masked > 0 {
			logger.WithField("masked", masked).Debug("redacted element description")
		}
	}

	// Delivery is best effort; the adapter still gets the text when it fails.
	if err := ctx.Err(); err != nil {
		return "", err
	}
	deliverErr := deliverer.Deliver(ctx, entities.ReferenceBlock(text))
	if deliverErr != nil {
		logger.WithError(deliverErr).Debug("failed to deliver element")
	}
	if adapter == nil {
		return text, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := adapter.Open(ctx, text); err != nil {
		logger.WithError(err).WithField("adapter", adapter.Name()).Debug("adapter failed to open text")
		if deliverErr != nil {
			return "", fmt.Errorf("failed to deliver element: %w", errors.Join(deliverErr, err))
		}
	}
	return text, nil
}

type liveIndicator struct {
	indicator entities.Indicator
	timer     interfaces.Timer
}

// indicatorSet owns every transient grab indicator and its timers
type indicatorSet struct {
	c      *Controller
	nextID int
	live   map[int]*liveIndicator
}

func newIndicatorSet(c *Controller) *indicatorSet {
	return &indicatorSet{c: c, live: make(map[int]*liveIndicator)}
}

func (s *indicatorSet) show(kind entities.IndicatorKind, geometry entities.Geometry, text string) int {
	s.nextID++
	entry := &liveIndicator{indicator: entities.Indicator{
		ID:       s.nextID,
		Kind:     kind,
		Geometry: geometry,
		Text:     text,
	}}
	s.live[entry.indicator.ID] = entry
	s.draw(entry.indicator)
	return entry.indicator.ID
}

// flash shows the fading copy of the grabbed element's box
func (s *indicatorSet) flash(geometry entities.Geometry) {
	id := s.show(entities.IndicatorGrabbed, geometry, "")
	s.after(id, FlashFadeFor, func() { s.remove(id) })
}

func (s *indicatorSet) succeed(id int, tag string) {
	entry, ok := s.live[id]
	if !ok {
		return
	}
	entry.indicator.Kind = entities.IndicatorSucceeded
	entry.indicator.Text = "Grabbed " + entities.TagLabel(tag)
	s.draw(entry.indicator)
	s.after(id, SucceededVisibleFor, func() {
		entry.indicator.Kind = entities.IndicatorFading
		s.draw(entry.indicator)
		s.after(id, IndicatorFadeFor, func() { s.remove(id) })
	})
}

func (s *indicatorSet) after(id int, d time.Duration, f func()) {
	entry, ok := s.live[id]
	if !ok {
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	entry.timer = s.c.deps.Clock.AfterFunc(d, func() {
		entry.timer = nil
		f()
	})
}

func (s *indicatorSet) remove(id int) {
	entry, ok := s.live[id]
	if !ok {
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
	delete(s.live, id)
	entry.indicator.Kind = entities.IndicatorRemoved
	s.draw(entry.indicator)
}

func (s *indicatorSet) clear() {
	for id := range s.live {
		s.remove(id)
	}
}

func (s *indicatorSet) count() int {
	return len(s.live)
}

func (s *indicatorSet) draw(indicator entities.Indicator) {
	if err := s.c.deps.Overlay.DrawIndicator(s.c.ctx, indicator); err != nil {
		s.c.logger.WithError(err).WithField("indicator", indicator.ID).Debug("failed to draw indicator")
	}
}
