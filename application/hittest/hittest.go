// Package hittest resolves the page element under a viewport point.
package hittest

import (
	"context"

	"element_grab/domain/entities"
	"element_grab/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// HitTester picks the topmost selectable element at a point
type HitTester struct {
	page   interfaces.Page
	logger *logrus.Logger
}

// New - creates a hit tester over page
func New(page interfaces.Page, logger *logrus.Logger) *HitTester {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &HitTester{page: page, logger: logger}
}

// ElementAt - returns the selectable element at (x, y); ok is false when there is none
func (h *HitTester) ElementAt(ctx context.Context, x, y float64) (entities.Element, bool) {
	stack, err := h.page.ElementsFromPoint(ctx, x, y)
	if err != nil {
		h.logger.WithError(err).Debug("hit test failed")
		return entities.Element{}, false
	}
	return FirstSelectable(stack)
}

// FirstSelectable - returns the first element of a topmost-first stack that is not
// part of the tool's overlay and is rendered visibly
func FirstSelectable(stack []entities.Element) (entities.Element, bool) {
	for _, element := range stack {
		if element.Owned {
			continue
		}
		if !element.Style.IsVisible() {
			continue
		}
		return element, true
	}
	return entities.Element{}, false
}
