package interfaces

import (
	"context"

	"element_grab/domain/entities"
)

// Page defines the hit-testing surface of a live page
type Page interface {
	// ElementsFromPoint returns the elements at a viewport point, topmost first
	ElementsFromPoint(ctx context.Context, x, y float64) ([]entities.Element, error)
}

// Overlay defines the drawing surface for the tool's own UI.
// Implementations keep their nodes marked as owned so hit testing skips them.
type Overlay interface {
	DrawSelection(ctx context.Context, selection entities.Selection) error
	DrawLabel(ctx context.Context, label entities.Label) error
	DrawProgress(ctx context.Context, progress entities.Progress) error
	DrawIndicator(ctx context.Context, indicator entities.Indicator) error
	// SetMode mirrors the overlay mode into the page so clicks can be suppressed synchronously
	SetMode(ctx context.Context, mode entities.OverlayMode) error
}

// EventSource defines a producer of raw page events.
// emit may be called from any goroutine.
type EventSource interface {
	Subscribe(ctx context.Context, emit func(entities.Event)) (stop func(), err error)
}

// Browser defines a page host driven by a browser automation backend
type Browser interface {
	Page
	Overlay
	Describer
	EventSource

	// Navigate navigates the active page to a URL
	Navigate(ctx context.Context, url string) error

	// CopyText writes text through the page's clipboard
	CopyText(ctx context.Context, text string) error

	// OpenURL opens a URL from the page, like window.open
	OpenURL(ctx context.Context, url string) error

	// GetCurrentURL returns the current page URL
	GetCurrentURL(ctx context.Context) (string, error)

	// Close closes the browser
	Close() error
}
