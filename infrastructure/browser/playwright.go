package browser

import (
	"context"
	"fmt"
	"sync"

	"element_grab/domain/entities"
	"element_grab/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

type playwrightHost struct {
	pageBridge

	pw         *playwright.Playwright
	browser    playwright.Browser
	context    playwright.BrowserContext
	page       playwright.Page
	pages      []playwright.Page
	pagesMutex sync.Mutex

	logger    *logrus.Logger
	sequencer *sequencer
	emitMutex sync.Mutex
	emit      func(entities.Event)
}

// NewPlaywrightHost - launches Chromium through playwright with the page script installed
func NewPlaywrightHost(opts Options, logger *logrus.Logger) (interfaces.Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--disable-infobars",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.viewportWidth(),
			Height: opts.viewportHeight(),
		},
		JavaScriptEnabled: playwright.Bool(true),
		BypassCSP:         playwright.Bool(true),
		Permissions:       []string{"clipboard-read", "clipboard-write"},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	host := &playwrightHost{
		pw:        pw,
		browser:   browser,
		context:   context,
		logger:    logger,
		sequencer: newSequencer(),
	}
	host.pageBridge = pageBridge{caller: host}

	if err := context.ExposeFunction(emitBinding, host.receive); err != nil {
		host.Close()
		return nil, fmt.Errorf("failed to expose event binding: %w", err)
	}
	if err := context.AddInitScript(playwright.Script{Content: playwright.String(pageScript)}); err != nil {
		host.Close()
		return nil, fmt.Errorf("failed to add page script: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		host.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	host.track(page)

	context.OnPage(func(newPage playwright.Page) {
		host.track(newPage)
	})

	return host, nil
}

// track makes page the current page and forgets it once it closes
func (b *playwrightHost) track(page playwright.Page) {
	b.pagesMutex.Lock()
	defer b.pagesMutex.Unlock()

	b.pages = append(b.pages, page)
	b.page = page

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Dismiss()
	})

	page.OnClose(func(closedPage playwright.Page) {
		b.pagesMutex.Lock()
		defer b.pagesMutex.Unlock()

		for i, p := range b.pages {
			if p == closedPage {
				b.pages = append(b.pages[:i], b.pages[i+1:]...)
				break
			}
		}

		if b.page == closedPage && len(b.pages) > 0 {
			b.page = b.pages[len(b.pages)-1]
		}
	})
}

func (b *playwrightHost) currentPage() playwright.Page {
	b.pagesMutex.Lock()
	defer b.pagesMutex.Unlock()
	return b.page
}

// receive is called by playwright for every batch the page emits
func (b *playwrightHost) receive(args ...interface{}) interface{} {
	if len(args) == 0 {
		return nil
	}
	batch, err := decodeBatch(args[0])
	if err != nil {
		b.logger.WithError(err).Debug("dropping malformed event batch")
		return nil
	}

	b.emitMutex.Lock()
	emit := b.emit
	b.emitMutex.Unlock()
	if emit == nil {
		return nil
	}
	b.sequencer.push(batch, emit)
	return nil
}

func (b *playwrightHost) call(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	page := b.currentPage()
	if page == nil {
		return nil, fmt.Errorf("no open page")
	}
	if args == nil {
		args = []interface{}{}
	}
	return page.Evaluate(`([method, args]) => {
		const grab = window.__elementGrab;
		if (!grab) return null;
		return grab[method](...args);
	}`, []interface{}{method, args})
}

// Subscribe - starts forwarding page events to emit
func (b *playwrightHost) Subscribe(ctx context.Context, emit func(entities.Event)) (func(), error) {
	b.emitMutex.Lock()
	b.emit = emit
	b.emitMutex.Unlock()

	return func() {
		b.emitMutex.Lock()
		b.emit = nil
		b.emitMutex.Unlock()
	}, nil
}

// Navigate - navigates the current page to url
func (b *playwrightHost) Navigate(ctx context.Context, url string) error {
	page := b.currentPage()
	if page == nil {
		return fmt.Errorf("no open page")
	}
	b.logger.Infof("Navigating to: %s", url)
	_, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// GetCurrentURL - returns the current page URL
func (b *playwrightHost) GetCurrentURL(ctx context.Context) (string, error) {
	page := b.currentPage()
	if page == nil {
		return "", fmt.Errorf("no open page")
	}
	return page.URL(), nil
}

// Close - closes the browser and stops playwright
func (b *playwrightHost) Close() error {
	var closeErr error

	if b.context != nil {
		if err := b.context.Close(); err != nil && !isClosedErr(err) {
			closeErr = fmt.Errorf("failed to close context: %w", err)
		}
		b.context = nil
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil && !isClosedErr(err) {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; failed to close browser: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("failed to close browser: %w", err)
			}
		}
		b.browser = nil
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
		b.pw = nil
	}

	return closeErr
}
