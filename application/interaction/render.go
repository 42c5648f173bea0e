package interaction

import (
	"math"

	"element_grab/application/machine"
	"element_grab/domain/entities"
)

// SelectionLerpFactor is how far the highlight moves toward its target each frame
const SelectionLerpFactor = 0.95

// settleThreshold snaps the highlight onto its target once it is within this many pixels
const settleThreshold = 0.01

type selectionState struct {
	geometry entities.Geometry
	visible  bool
	drawn    entities.Selection
	hasDrawn bool
}

func newSelectionState() selectionState {
	return selectionState{
		geometry: entities.Geometry{
			X:            entities.OffscreenPosition,
			Y:            entities.OffscreenPosition,
			BorderRadius: "0px",
			Transform:    "none",
		},
	}
}

func (c *Controller) continuousRender() {
	c.scheduleRender()
	c.cancelLoop = c.deps.Frames.RequestTick(c.continuousRender)
}

func (c *Controller) scheduleRender() {
	if !c.active {
		return
	}
	c.render.Schedule(func() {
		c.handleRender(c.store.State())
	})
}

func (c *Controller) handleRender(state entities.State) {
	if state.OverlayMode == entities.ModeHidden {
		c.hideSelection()
		if !c.copying {
			c.hideLabel()
		}
		c.hovered = nil
		c.lastGrabbed = nil
		return
	}

	if state.OverlayMode == entities.ModeCopying && c.hovered != nil {
		if !c.copying {
			c.startGrab(*c.hovered)
		}
		return
	}

	element, ok := c.hits.ElementAt(c.ctx, state.MouseX, state.MouseY)
	if !ok {
		c.hideSelection()
		if !c.copying {
			c.hideLabel()
		}
		c.hovered = nil
		return
	}

	// Grab suppression lasts until the pointer reaches a different element.
	if c.lastGrabbed != nil && !element.Same(*c.lastGrabbed) {
		c.lastGrabbed = nil
	}
	if c.lastGrabbed != nil {
		c.hideSelection()
		if !c.copying {
			c.hideLabel()
		}
		c.hovered = &element
		return
	}

	c.hovered = &element
	c.selection.geometry = approach(c.selection.geometry, element.Geometry())
	c.selection.visible = true
	c.drawSelection(entities.Selection{
		Geometry:    c.selection.geometry,
		Visible:     true,
		Interactive: !element.AcceptsPointer(),
	})
	c.showLabel(element.Rect.X, element.Rect.Y, entities.TagLabel(element.TagName()))
}

func (c *Controller) startGrab(target entities.Element) {
	c.copying = true
	c.lastGrabbed = &target
	c.indicators.flash(target.Geometry())
	c.grab(target)
	c.transition(machine.CopyStarted(c.IsActivationHotkeyPressed()))
}

func approach(current, target entities.Geometry) entities.Geometry {
	next := current.Lerp(target, SelectionLerpFactor)
	if math.Abs(next.X-target.X) < settleThreshold &&
		math.Abs(next.Y-target.Y) < settleThreshold &&
		math.Abs(next.Width-target.Width) < settleThreshold &&
		math.Abs(next.Height-target.Height) < settleThreshold {
		return target
	}
	return next
}

func (c *Controller) drawSelection(selection entities.Selection) {
	if c.selection.hasDrawn && c.selection.drawn == selection {
		return
	}
	c.selection.drawn = selection
	c.selection.hasDrawn = true
	if err := c.deps.Overlay.DrawSelection(c.ctx, selection); err != nil {
		c.logger.WithError(err).Debug("failed to draw selection")
	}
}

func (c *Controller) hideSelection() {
	if !c.selection.visible {
		return
	}
	c.selection.visible = false
	c.drawSelection(entities.Selection{Geometry: c.selection.geometry})
}

func (c *Controller) showLabel(x, y float64, text string) {
	label := entities.Label{Visible: true, X: x, Y: y, Text: text}
	if c.label == label {
		return
	}
	c.label = label
	if err := c.deps.Overlay.DrawLabel(c.ctx, label); err != nil {
		c.logger.WithError(err).Debug("failed to draw label")
	}
}

func (c *Controller) hideLabel() {
	if !c.label.Visible {
		return
	}
	c.label = entities.Label{}
	if err := c.deps.Overlay.DrawLabel(c.ctx, c.label); err != nil {
		c.logger.WithError(err).Debug("failed to hide label")
	}
}
