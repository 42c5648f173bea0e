package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"element_grab/application/interaction"
	"element_grab/application/session"
	"element_grab/domain/entities"
	"element_grab/domain/interfaces"
	"element_grab/infrastructure/adapters"
	"element_grab/infrastructure/browser"
	"element_grab/infrastructure/clipboard"
	"element_grab/infrastructure/config"
	"element_grab/infrastructure/keyboard"
	"element_grab/infrastructure/security"

	"github.com/sirupsen/logrus"
)

// sessionControl is the part of a session the command loop drives
type sessionControl interface {
	Open(ctx context.Context, url string) error
	Status(ctx context.Context) (session.Status, error)
}

type TerminalInterface struct {
	cfg       *config.Config
	session   *session.Session
	control   sessionControl
	browser   interfaces.Browser
	websocket *adapters.WebSocket
	logger    *logrus.Logger
	reader    *bufio.Reader
	out       io.Writer
	cancel    context.CancelFunc
}

func NewTerminalInterface(cfg *config.Config, logger *logrus.Logger) (*TerminalInterface, error) {
	// Initialize browser host
	host, err := browser.New(browser.Options{
		Driver:       cfg.Browser.Driver,
		Headless:     cfg.Browser.Headless,
		DriverPath:   cfg.Browser.DriverPath,
		ChromeBinary: cfg.Browser.ChromeBinary,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	t := &TerminalInterface{
		cfg:     cfg,
		browser: host,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	adapter := t.buildAdapter()
	deps := session.Deps{
		Browser:   host,
		Deliverer: clipboard.New(host, logger),
		OnGrab:    t.printGrab,
		Logger:    logger,
	}
	if cfg.Grab.Redact {
		deps.Redactor = security.NewRedactor(logger)
	}
	if cfg.Grab.KeySource == config.KeySourceGlobal {
		deps.Keys = keyboard.NewSource(logger)
	}

	t.session = session.NewSession(Options(cfg, adapter), deps)
	t.control = t.session
	return t, nil
}

// Options - converts the grab configuration into controller options
func Options(cfg *config.Config, adapter interfaces.Adapter) interaction.Options {
	return interaction.Options{
		Enabled:         cfg.Grab.Enabled,
		Hotkey:          entities.ParseHotkey(cfg.Grab.Hotkey),
		KeyHoldDuration: time.Duration(cfg.Grab.KeyHoldMS) * time.Millisecond,
		Adapter:         adapter,
	}
}

func (t *TerminalInterface) buildAdapter() interfaces.Adapter {
	switch t.cfg.Grab.Adapter {
	case "cursor":
		return adapters.NewCursor(t.browser)
	case "websocket":
		t.websocket = adapters.NewWebSocket(adapters.NewHub(t.logger))
		return t.websocket
	default:
		return nil
	}
}

func (t *TerminalInterface) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	defer cancel()

	if t.websocket != nil {
		if err := t.websocket.Start(ctx, t.cfg.WebSocket.Addr); err != nil {
			return err
		}
	}
	if err := t.session.Start(ctx); err != nil {
		return err
	}
	if url := t.cfg.Browser.StartURL; url != "" {
		if err := t.session.Open(ctx, url); err != nil {
			t.logger.WithError(err).Warn("Failed to open start page")
		}
	}

	fmt.Fprintln(t.out, "Element Grab")
	fmt.Fprintln(t.out, "============")
	fmt.Fprintf(t.out, "Hold %s over the page, then click an element to copy it.\n", entities.ParseHotkey(t.cfg.Grab.Hotkey))
	fmt.Fprintln(t.out, "Type 'help' for commands, or 'quit' to exit")
	fmt.Fprintln(t.out)

	for {
		fmt.Fprint(t.out, "> ")
		input, err := t.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if quit := t.handle(ctx, input); quit {
			fmt.Fprintln(t.out, "Goodbye!")
			return nil
		}
	}
}

// handle runs one command line and reports whether the loop should stop
func (t *TerminalInterface) handle(ctx context.Context, input string) bool {
	command, arg := parseCommand(input)
	switch command {
	case "":
	case "quit", "exit", "q":
		return true
	case "help":
		fmt.Fprintln(t.out, "  open <url>  navigate the page")
		fmt.Fprintln(t.out, "  status      show the overlay state and grab count")
		fmt.Fprintln(t.out, "  quit        exit")
	case "open":
		if arg == "" {
			fmt.Fprintln(t.out, "Usage: open <url>")
			return false
		}
		if err := t.control.Open(ctx, normalizeURL(arg)); err != nil {
			fmt.Fprintf(t.out, "Could not open page: %v\n", err)
		}
	case "status":
		status, err := t.control.Status(ctx)
		if err != nil {
			fmt.Fprintf(t.out, "Could not read status: %v\n", err)
			return false
		}
		t.printStatus(status)
	default:
		fmt.Fprintf(t.out, "Unknown command %q, type 'help'\n", command)
	}
	return false
}

func (t *TerminalInterface) printStatus(status session.Status) {
	fmt.Fprintf(t.out, "Page:    %s\n", status.URL)
	fmt.Fprintf(t.out, "Active:  %v\n", status.Active)
	fmt.Fprintf(t.out, "Overlay: %s\n", status.Mode)
	if status.Hovered != nil {
		fmt.Fprintf(t.out, "Hovered: %s\n", entities.TagLabel(status.Hovered.TagName()))
	}
	fmt.Fprintf(t.out, "Grabs:   %d\n", status.Grabs)
	if last := status.LastGrab; last != nil {
		result := "ok"
		if !last.Succeeded() {
			result = last.Err.Error()
		}
		fmt.Fprintf(t.out, "Last:    %s (%s)\n", entities.TagLabel(last.Target.TagName()), result)
	}
}

func (t *TerminalInterface) printGrab(result entities.GrabResult) {
	if result.Succeeded() {
		fmt.Fprintf(t.out, "\nGrabbed %s\n> ", entities.TagLabel(result.Target.TagName()))
		return
	}
	fmt.Fprintf(t.out, "\nGrab failed: %v\n> ", result.Err)
}

func parseCommand(input string) (string, string) {
	input = strings.TrimSpace(input)
	command, arg, _ := strings.Cut(input, " ")
	return strings.ToLower(command), strings.TrimSpace(arg)
}

func normalizeURL(raw string) string {
	if strings.Contains(raw, "://") || strings.HasPrefix(raw, "about:") {
		return raw
	}
	return "https://" + raw
}

func (t *TerminalInterface) Close() error {
	if t.cancel != nil {
		t.cancel()
	}
	if err := t.session.Close(); err != nil {
		t.logger.WithError(err).Warn("Failed to close session")
	}
	return t.browser.Close()
}
