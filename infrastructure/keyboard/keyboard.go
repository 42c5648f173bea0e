// Package keyboard feeds OS-level key events into the hotkey tracker through robotn/gohook.
// It lets the activation hotkey work while the page does not have focus.
package keyboard

import (
	"context"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
	"github.com/sirupsen/logrus"

	"element_grab/domain/entities"
)

// domKey is the KeyboardEvent key/code pair a hook key code is reported as
type domKey struct {
	key  string
	code string
}

var namedKeys = map[string]domKey{
	"ctrl":   {"Control", "ControlLeft"},
	"rctrl":  {"Control", "ControlRight"},
	"shift":  {"Shift", "ShiftLeft"},
	"rshift": {"Shift", "ShiftRight"},
	"alt":    {"Alt", "AltLeft"},
	"ralt":   {"Alt", "AltRight"},
	"cmd":    {"Meta", "MetaLeft"},
	"rcmd":   {"Meta", "MetaRight"},
	"esc":    {"Escape", "Escape"},
	"space":  {" ", "Space"},
	"enter":  {"Enter", "Enter"},
	"tab":    {"Tab", "Tab"},
}

// keyTable maps gohook key codes to DOM key names
var keyTable = buildKeyTable()

func buildKeyTable() map[uint16]domKey {
	table := make(map[uint16]domKey)
	add := func(name string, k domKey) {
		if code, ok := gohook.Keycode[name]; ok && code != 0 {
			if _, taken := table[code]; !taken {
				table[code] = k
			}
		}
	}

	for name, k := range namedKeys {
		add(name, k)
	}
	for c := 'a'; c <= 'z'; c++ {
		add(string(c), domKey{key: string(c), code: "Key" + strings.ToUpper(string(c))})
	}
	for c := '0'; c <= '9'; c++ {
		add(string(c), domKey{key: string(c), code: "Digit" + string(c)})
	}
	return table
}

// Translate - converts a hook event into a page key event; other events and unknown keys report false
func Translate(ev gohook.Event) (entities.Event, bool) {
	var kind entities.EventKind
	switch ev.Kind {
	case gohook.KeyHold:
		kind = entities.EventKeyDown
	case gohook.KeyUp:
		kind = entities.EventKeyUp
	default:
		return entities.Event{}, false
	}

	k, ok := keyTable[ev.Keycode]
	if !ok {
		return entities.Event{}, false
	}
	return entities.Event{Kind: kind, Key: &entities.KeyEvent{Key: k.key, Code: k.code}}, true
}

// Source is an EventSource for global key events.
// Only one hook runs per process, so a Source can have one subscriber at a time.
type Source struct {
	start  func() chan gohook.Event
	end    func()
	logger *logrus.Logger
	mu     sync.Mutex
	active bool
}

// NewSource - creates a source backed by the OS keyboard hook
func NewSource(logger *logrus.Logger) *Source {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Source{start: gohook.Start, end: gohook.End, logger: logger}
}

// Subscribe - starts the hook and emits translated key events until stop is called or ctx ends
func (s *Source) Subscribe(ctx context.Context, emit func(entities.Event)) (func(), error) {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil, errAlreadySubscribed
	}
	s.active = true
	s.mu.Unlock()

	events := s.start()
	if events == nil {
		s.release()
		return nil, errHookUnavailable
	}
	s.logger.Info("Global keyboard hook started")

	done := make(chan struct{})
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.WithField("panic", r).Error("panic in keyboard hook")
			}
		}()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if translated, ok := Translate(ev); ok {
					emit(translated)
				}
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			s.end()
			s.release()
			s.logger.Debug("Global keyboard hook stopped")
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()
	return stop, nil
}

func (s *Source) release() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}
