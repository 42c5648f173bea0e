package interaction

import (
	"time"

	"element_grab/domain/entities"
)

// progressState tracks the hold progress bar shown between the first press and activation
type progressState struct {
	active  bool
	shown   bool
	started time.Time
	cancel  func()
}

func (c *Controller) startProgress() {
	if c.progress.active {
		return
	}
	c.progress.active = true
	c.progress.started = c.deps.Clock.Now()
	c.drawProgress(0)
	c.progress.cancel = c.deps.Frames.RequestTick(c.updateProgress)
}

func (c *Controller) updateProgress() {
	c.progress.cancel = nil
	if !c.progress.active {
		return
	}
	elapsed := c.deps.Clock.Now().Sub(c.progress.started)
	value := 1.0
	if c.opts.KeyHoldDuration > 0 {
		value = float64(elapsed) / float64(c.opts.KeyHoldDuration)
	}
	if value > 1 {
		value = 1
	}
	c.drawProgress(value)
	if value < 1 {
		c.progress.cancel = c.deps.Frames.RequestTick(c.updateProgress)
	}
}

func (c *Controller) stopProgress() {
	if c.progress.cancel != nil {
		c.progress.cancel()
		c.progress.cancel = nil
	}
	c.progress.active = false
	c.progress.started = time.Time{}
	if !c.progress.shown {
		return
	}
	c.progress.shown = false
	if err := c.deps.Overlay.DrawProgress(c.ctx, entities.Progress{}); err != nil {
		c.logger.WithError(err).Debug("failed to hide progress")
	}
}

func (c *Controller) drawProgress(value float64) {
	state := c.store.State()
	c.progress.shown = true
	progress := entities.Progress{
		Visible: true,
		Value:   value,
		X:       state.MouseX,
		Y:       state.MouseY,
	}
	if err := c.deps.Overlay.DrawProgress(c.ctx, progress); err != nil {
		c.logger.WithError(err).Debug("failed to draw progress")
	}
}
