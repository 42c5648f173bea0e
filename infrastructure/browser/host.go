// Package browser hosts a live page in a browser driven by playwright or selenium
// and implements interfaces.Browser on top of an injected page script.
package browser

import (
	"fmt"

	"element_grab/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	DriverPlaywright = "playwright"
	DriverSelenium   = "selenium"

	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
)

// Options configures the browser host
type Options struct {
	Driver         string
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	// DriverPath, ChromeBinary and DriverPort only apply to selenium
	DriverPath   string
	ChromeBinary string
	DriverPort   int
}

func (o Options) viewportWidth() int {
	if o.ViewportWidth > 0 {
		return o.ViewportWidth
	}
	return defaultViewportWidth
}

func (o Options) viewportHeight() int {
	if o.ViewportHeight > 0 {
		return o.ViewportHeight
	}
	return defaultViewportHeight
}

// New - launches the host selected by opts.Driver; empty selects playwright
func New(opts Options, logger *logrus.Logger) (interfaces.Browser, error) {
	switch opts.Driver {
	case "", DriverPlaywright:
		return NewPlaywrightHost(opts, logger)
	case DriverSelenium:
		return NewSeleniumHost(opts, logger)
	default:
		return nil, fmt.Errorf("unknown browser driver %q", opts.Driver)
	}
}
