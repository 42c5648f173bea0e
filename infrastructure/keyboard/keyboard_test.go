package keyboard

import (
	"context"
	"io"
	"testing"
	"time"

	gohook "github.com/robotn/gohook"
	"github.com/sirupsen/logrus"

	"element_grab/domain/entities"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		event    gohook.Event
		wantKind entities.EventKind
		wantKey  string
		wantCode string
		wantOK   bool
	}{
		{"ctrl press", gohook.Event{Kind: gohook.KeyHold, Keycode: gohook.Keycode["ctrl"]}, entities.EventKeyDown, "Control", "ControlLeft", true},
		{"ctrl release", gohook.Event{Kind: gohook.KeyUp, Keycode: gohook.Keycode["ctrl"]}, entities.EventKeyUp, "Control", "ControlLeft", true},
		{"letter", gohook.Event{Kind: gohook.KeyHold, Keycode: gohook.Keycode["c"]}, entities.EventKeyDown, "c", "KeyC", true},
		{"escape", gohook.Event{Kind: gohook.KeyHold, Keycode: gohook.Keycode["esc"]}, entities.EventKeyDown, "Escape", "Escape", true},
		{"typed event ignored", gohook.Event{Kind: gohook.KeyDown, Keycode: gohook.Keycode["c"]}, "", "", "", false},
		{"mouse ignored", gohook.Event{Kind: gohook.MouseMove}, "", "", "", false},
		{"unknown key", gohook.Event{Kind: gohook.KeyHold, Keycode: 0xffff}, "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.event)
			if ok != tt.wantOK {
				t.Fatalf("Translate() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Kind != tt.wantKind || got.Key == nil || got.Key.Key != tt.wantKey || got.Key.Code != tt.wantCode {
				t.Errorf("Translate() = %+v %+v", got, got.Key)
			}
		})
	}
}

func fakeSource(events chan gohook.Event) (*Source, *int) {
	ended := 0
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Source{
		start:  func() chan gohook.Event { return events },
		end:    func() { ended++ },
		logger: logger,
	}, &ended
}

func TestSourceEmitsTranslatedKeys(t *testing.T) {
	events := make(chan gohook.Event)
	source, ended := fakeSource(events)

	received := make(chan entities.Event, 4)
	stop, err := source.Subscribe(context.Background(), func(ev entities.Event) { received <- ev })
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	events <- gohook.Event{Kind: gohook.MouseMove}
	events <- gohook.Event{Kind: gohook.KeyHold, Keycode: gohook.Keycode["shift"]}

	select {
	case ev := <-received:
		if ev.Kind != entities.EventKeyDown || ev.Key.Key != "Shift" {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	if _, err := source.Subscribe(context.Background(), func(entities.Event) {}); err == nil {
		t.Errorf("expected second subscriber to be rejected")
	}

	stop()
	stop()
	if *ended != 1 {
		t.Errorf("hook ended %d times, want 1", *ended)
	}

	// The hook can be started again once released.
	stop, err = source.Subscribe(context.Background(), func(entities.Event) {})
	if err != nil {
		t.Fatalf("resubscribe error = %v", err)
	}
	stop()
}

func TestSourceUnavailableHook(t *testing.T) {
	source, _ := fakeSource(nil)
	if _, err := source.Subscribe(context.Background(), func(entities.Event) {}); err == nil {
		t.Fatal("expected an error when the hook does not start")
	}
	if source.active {
		t.Errorf("source must be released after a failed start")
	}
}
