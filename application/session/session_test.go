package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"element_grab/application/interaction"
	"element_grab/domain/entities"

	"github.com/sirupsen/logrus"
)

var target = entities.Element{
	ID:    "el-1",
	Tag:   "DIV",
	Rect:  entities.Rect{X: 0, Y: 0, Width: 200, Height: 200},
	Style: entities.Style{Display: "block", Visibility: "visible", Opacity: "1"},
}

type fakeBrowser struct {
	mu       sync.Mutex
	emit     func(entities.Event)
	modes    []entities.OverlayMode
	url      string
	stopped  bool
	subErr   error
	describe string
}

func (b *fakeBrowser) ElementsFromPoint(ctx context.Context, x, y float64) ([]entities.Element, error) {
	r := target.Rect
	if x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height {
		return []entities.Element{target}, nil
	}
	return nil, nil
}

func (b *fakeBrowser) DrawSelection(ctx context.Context, s entities.Selection) error { return nil }
func (b *fakeBrowser) DrawLabel(ctx context.Context, l entities.Label) error         { return nil }
func (b *fakeBrowser) DrawProgress(ctx context.Context, p entities.Progress) error   { return nil }
func (b *fakeBrowser) DrawIndicator(ctx context.Context, i entities.Indicator) error { return nil }

func (b *fakeBrowser) SetMode(ctx context.Context, mode entities.OverlayMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modes = append(b.modes, mode)
	return nil
}

func (b *fakeBrowser) Describe(ctx context.Context, el entities.Element) (string, error) {
	return b.describe, nil
}

func (b *fakeBrowser) Subscribe(ctx context.Context, emit func(entities.Event)) (func(), error) {
	if b.subErr != nil {
		return nil, b.subErr
	}
	b.mu.Lock()
	b.emit = emit
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		b.stopped = true
		b.mu.Unlock()
	}, nil
}

func (b *fakeBrowser) send(ev entities.Event) {
	b.mu.Lock()
	emit := b.emit
	b.mu.Unlock()
	emit(ev)
}

func (b *fakeBrowser) Navigate(ctx context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.url = url
	return nil
}

func (b *fakeBrowser) CopyText(ctx context.Context, text string) error { return nil }
func (b *fakeBrowser) OpenURL(ctx context.Context, url string) error   { return nil }

func (b *fakeBrowser) GetCurrentURL(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url, nil
}

func (b *fakeBrowser) Close() error { return nil }

type fakeKeys struct {
	emit func(entities.Event)
}

func (k *fakeKeys) Subscribe(ctx context.Context, emit func(entities.Event)) (func(), error) {
	k.emit = emit
	return func() {}, nil
}

type recordingDeliverer struct {
	mu    sync.Mutex
	texts []string
}

func (d *recordingDeliverer) Deliver(ctx context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts = append(d.texts, text)
	return nil
}

func (d *recordingDeliverer) delivered() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.texts...)
}

func key(kind entities.EventKind, k, code string) entities.Event {
	return entities.Event{Kind: kind, Key: &entities.KeyEvent{Key: k, Code: code}}
}

func mouse(kind entities.EventKind, x, y float64) entities.Event {
	return entities.Event{Kind: kind, Mouse: &entities.MouseEvent{X: x, Y: y, Button: entities.PrimaryButton}}
}

func testOptions() interaction.Options {
	return interaction.Options{
		Enabled:         true,
		Hotkey:          entities.Hotkey{"Control", "C"},
		KeyHoldDuration: 20 * time.Millisecond,
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func waitFor(t *testing.T, s *Session, what string, cond func(Status) bool) Status {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		status, err := s.Status(context.Background())
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if cond(status) {
			return status
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s, last status %+v", what, status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSessionGrab(t *testing.T) {
	browser := &fakeBrowser{describe: "<div>"}
	deliverer := &recordingDeliverer{}
	grabbed := make(chan entities.GrabResult, 1)

	s := NewSession(testOptions(), Deps{
		Browser:   browser,
		Deliverer: deliverer,
		OnGrab:    func(r entities.GrabResult) { grabbed <- r },
		Logger:    quietLogger(),
	})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Close()

	browser.send(mouse(entities.EventMouseMove, 50, 50))
	browser.send(key(entities.EventKeyDown, "Control", "ControlLeft"))
	browser.send(key(entities.EventKeyDown, "c", "KeyC"))

	waitFor(t, s, "visible overlay", func(st Status) bool {
		return st.Mode == entities.ModeVisible && st.Hovered != nil
	})

	browser.send(mouse(entities.EventMouseDown, 50, 50))

	select {
	case result := <-grabbed:
		if !result.Succeeded() || result.Target.ID != target.ID {
			t.Errorf("unexpected result %+v", result)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("grab never settled")
	}

	texts := deliverer.delivered()
	if len(texts) != 1 || texts[0] != entities.ReferenceBlock("<div>") {
		t.Errorf("delivered %q", texts)
	}

	status := waitFor(t, s, "grab count", func(st Status) bool { return st.Grabs == 1 })
	if status.LastGrab == nil || status.LastGrab.Target.ID != target.ID {
		t.Errorf("unexpected last grab %+v", status.LastGrab)
	}
}

func TestSessionGlobalKeysReplacePageKeys(t *testing.T) {
	browser := &fakeBrowser{}
	keys := &fakeKeys{}

	s := NewSession(testOptions(), Deps{
		Browser:   browser,
		Keys:      keys,
		Deliverer: &recordingDeliverer{},
		Logger:    quietLogger(),
	})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Close()

	browser.send(key(entities.EventKeyDown, "Control", "ControlLeft"))
	browser.send(key(entities.EventKeyDown, "c", "KeyC"))
	time.Sleep(50 * time.Millisecond)
	if status, _ := s.Status(context.Background()); status.HotkeyPressed {
		t.Fatal("page key events must be ignored with a global key source")
	}

	keys.emit(key(entities.EventKeyDown, "Control", "ControlLeft"))
	keys.emit(key(entities.EventKeyDown, "c", "KeyC"))
	waitFor(t, s, "hotkey from the global source", func(st Status) bool { return st.HotkeyPressed })
}

func TestSessionOpenAndClose(t *testing.T) {
	browser := &fakeBrowser{}
	s := NewSession(testOptions(), Deps{Browser: browser, Deliverer: &recordingDeliverer{}, Logger: quietLogger()})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(context.Background()); err == nil {
		t.Error("expected a second Start to fail")
	}

	if err := s.Open(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	status, err := s.Status(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if status.URL != "https://example.com" || !status.Active || status.Mode != entities.ModeHidden {
		t.Errorf("unexpected status %+v", status)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !browser.stopped {
		t.Error("page subscription was not stopped")
	}
	if _, err := s.Status(context.Background()); err == nil {
		t.Error("expected Status to fail after Close")
	}
}

func TestSessionSubscribeError(t *testing.T) {
	browser := &fakeBrowser{subErr: errors.New("page gone")}
	s := NewSession(testOptions(), Deps{Browser: browser, Deliverer: &recordingDeliverer{}, Logger: quietLogger()})
	err := s.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "page gone") {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() after failed Start error = %v", err)
	}
}
