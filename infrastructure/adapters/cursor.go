// Package adapters opens grabbed text in external tools.
package adapters

import (
	"context"
	"net/url"
)

const cursorDeeplink = "cursor://anysphere.cursor-deeplink/prompt"

// URLOpener opens a URL, in the page or through the OS
type URLOpener interface {
	OpenURL(ctx context.Context, url string) error
}

// Cursor opens the text as a prompt in the Cursor editor through its deep link
type Cursor struct {
	opener URLOpener
}

// NewCursor - creates the adapter; URLs are opened through opener
func NewCursor(opener URLOpener) *Cursor {
	return &Cursor{opener: opener}
}

// Name - returns "cursor"
func (c *Cursor) Name() string {
	return "cursor"
}

// Open - opens the prompt deep link; empty text is ignored
func (c *Cursor) Open(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	return c.opener.OpenURL(ctx, CursorURL(text))
}

// CursorURL - builds the prompt deep link for text
func CursorURL(text string) string {
	return cursorDeeplink + "?" + url.Values{"text": {text}}.Encode()
}
