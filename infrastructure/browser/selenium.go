package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"element_grab/domain/entities"
	"element_grab/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// pollInterval is how often the selenium host drains the page event queue
const pollInterval = 16 * time.Millisecond

const defaultDriverPort = 9515

type seleniumHost struct {
	pageBridge

	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
	// wdMutex serializes WebDriver commands from the poller and the event loop
	wdMutex sync.Mutex
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	for _, path := range []string{configured, os.Getenv("BROWSER_DRIVER_PATH")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	for _, path := range []string{configured, os.Getenv("CHROME_BINARY_PATH")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// NewSeleniumHost - starts ChromeDriver and a Chrome session
func NewSeleniumHost(opts Options, logger *logrus.Logger) (interfaces.Browser, error) {
	driverPath, err := findChromeDriver(opts.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}

	logger.Infof("Using ChromeDriver at: %s", driverPath)

	chromeBinary := findChromeBinary(opts.ChromeBinary)
	if chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
	}

	port := opts.DriverPort
	if port == 0 {
		port = defaultDriverPort
	}

	service, err := selenium.NewChromeDriverService(driverPath, port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	args := []string{
		"--disable-blink-features=AutomationControlled",
		"--disable-dev-shm-usage",
		"--no-sandbox",
		fmt.Sprintf("--window-size=%d,%d", opts.viewportWidth(), opts.viewportHeight()),
	}
	if opts.Headless {
		args = append(args, "--headless=new")
	}
	chromeCaps := chrome.Capabilities{Args: args}

	if chromeBinary != "" {
		chromeCaps.Path = chromeBinary
	}

	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	host := &seleniumHost{
		wd:      wd,
		service: service,
		logger:  logger,
	}
	host.pageBridge = pageBridge{caller: host}
	return host, nil
}

func (s *seleniumHost) call(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	s.wdMutex.Lock()
	defer s.wdMutex.Unlock()
	return s.wd.ExecuteScript(`
		var grab = window.__elementGrab;
		if (!grab) { return null; }
		return grab[arguments[0]].apply(grab, arguments[1]);
	`, []interface{}{method, args})
}

// install runs the page script on the current document; selenium has no init scripts
func (s *seleniumHost) install() error {
	s.wdMutex.Lock()
	defer s.wdMutex.Unlock()
	if _, err := s.wd.ExecuteScript(pageScript+"\nreturn true;", nil); err != nil {
		return fmt.Errorf("failed to install page script: %w", err)
	}
	return nil
}

func (s *seleniumHost) drain() (eventBatch, error) {
	s.wdMutex.Lock()
	result, err := s.wd.ExecuteScript(`return window.__elementGrab ? window.__elementGrab.drain() : null;`, nil)
	s.wdMutex.Unlock()
	if err != nil {
		return eventBatch{}, err
	}
	return decodeBatch(result)
}

// Subscribe - polls the page event queue until ctx ends or stop is called.
// Documents loaded by in-page navigation get the script on the next poll.
func (s *seleniumHost) Subscribe(ctx context.Context, emit func(entities.Event)) (func(), error) {
	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
			}

			batch, err := s.drain()
			if errors.Is(err, errScriptMissing) {
				if err := s.install(); err != nil {
					s.logger.WithError(err).Debug("page script not installed yet")
				}
				continue
			}
			if err != nil {
				if isClosedErr(err) {
					return
				}
				s.logger.WithError(err).Debug("failed to drain page events")
				continue
			}
			for _, ev := range batch.Events {
				emit(ev)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

// Navigate - navigates browser to specified URL and installs the page script
func (s *seleniumHost) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	s.wdMutex.Lock()
	err := s.wd.Get(url)
	s.wdMutex.Unlock()
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return s.install()
}

// GetCurrentURL - returns current page URL
func (s *seleniumHost) GetCurrentURL(ctx context.Context) (string, error) {
	s.wdMutex.Lock()
	defer s.wdMutex.Unlock()
	return s.wd.CurrentURL()
}

// Close - closes browser and stops ChromeDriver service
func (s *seleniumHost) Close() error {
	s.wdMutex.Lock()
	defer s.wdMutex.Unlock()
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil && !isClosedErr(err) {
			s.logger.WithError(err).Debug("failed to quit webdriver")
		}
		s.wd = nil
	}
	if s.service != nil {
		s.service.Stop()
		s.service = nil
	}
	return nil
}
