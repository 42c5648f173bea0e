package hotkeys

import (
	"testing"
	"time"

	"element_grab/application/clock"
	"element_grab/application/events"
	"element_grab/application/store"
	"element_grab/domain/entities"
)

func newFixture() (*store.Store[entities.State], *clock.Manual, *Tracker) {
	s := store.New(entities.NewState())
	c := clock.NewManual(time.Unix(1700000000, 0))
	return s, c, NewTracker(s, c)
}

func key(k string) entities.KeyEvent {
	return entities.KeyEvent{Key: k, Code: "Key" + k}
}

func TestKeyDownRecordsKeyAndTimestamp(t *testing.T) {
	s, c, tracker := newFixture()

	tracker.HandleKeyDown(key("Meta"))
	firstPress := c.Now()
	c.Advance(100 * time.Millisecond)
	tracker.HandleKeyDown(key("Meta"))

	state := s.State()
	if !state.PressedKeys.Has("Meta") {
		t.Fatalf("expected Meta to be pressed")
	}
	if got := state.KeyPressTimestamps["Meta"]; !got.Equal(firstPress) {
		t.Errorf("auto-repeat moved the press timestamp: %v", got)
	}
}

func TestKeyDownWithoutCodeIsIgnored(t *testing.T) {
	s, _, tracker := newFixture()

	tracker.HandleKeyDown(entities.KeyEvent{Key: "Unidentified", NoCode: true})

	if s.State().PressedKeys.Len() != 0 {
		t.Errorf("event without key code was tracked")
	}
}

func TestEmptyKeyCodeIsTracked(t *testing.T) {
	s, _, tracker := newFixture()

	tracker.HandleKeyDown(entities.KeyEvent{Key: "Process", Code: ""})
	if !s.State().PressedKeys.Has("Process") {
		t.Fatalf("key with an empty code was dropped")
	}

	tracker.HandleKeyUp(entities.KeyEvent{Key: "Process", Code: ""})
	if s.State().PressedKeys.Has("Process") {
		t.Errorf("key with an empty code was not released")
	}
}

func TestKeyUpRemovesKeyAndTimestamp(t *testing.T) {
	s, _, tracker := newFixture()

	tracker.HandleKeyDown(key("Control"))
	tracker.HandleKeyDown(key("c"))
	tracker.HandleKeyUp(key("c"))

	state := s.State()
	if state.PressedKeys.Has("c") {
		t.Errorf("released key still pressed")
	}
	if _, ok := state.KeyPressTimestamps["c"]; ok {
		t.Errorf("released key still has a timestamp")
	}
	if !state.PressedKeys.Has("Control") {
		t.Errorf("unrelated key was released")
	}
}

func TestBlurAndContextMenuClearState(t *testing.T) {
	tests := []struct {
		name  string
		event entities.EventKind
	}{
		{name: "blur", event: entities.EventBlur},
		{name: "context menu", event: entities.EventContextMenu},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c, tracker := newFixture()
			d := events.NewDispatcher()
			detach := tracker.Attach(d)
			defer detach()

			d.Dispatch(entities.Event{Kind: entities.EventKeyDown, Key: &entities.KeyEvent{Key: "Meta", Code: "MetaLeft"}})
			d.Dispatch(entities.Event{Kind: tt.event})

			state := s.State()
			if state.PressedKeys.Len() != 0 || len(state.KeyPressTimestamps) != 0 {
				t.Fatalf("expected clean key state, got %v %v", state.PressedKeys.Keys(), state.KeyPressTimestamps)
			}

			c.Advance(time.Second)
			d.Dispatch(entities.Event{Kind: entities.EventKeyDown, Key: &entities.KeyEvent{Key: "Meta", Code: "MetaLeft"}})
			if got := s.State().KeyPressTimestamps["Meta"]; !got.Equal(c.Now()) {
				t.Errorf("expected fresh timestamp after reset, got %v", got)
			}
		})
	}
}

func TestAttachDetachRemovesListeners(t *testing.T) {
	_, _, tracker := newFixture()
	d := events.NewDispatcher()

	detach := tracker.Attach(d)
	if d.Total() != 4 {
		t.Fatalf("expected 4 listeners, got %d", d.Total())
	}
	detach()
	if d.Total() != 0 {
		t.Errorf("expected listeners removed, got %d", d.Total())
	}
}

func TestFormControlTargetsAreIgnored(t *testing.T) {
	tests := []struct {
		name    string
		event   entities.KeyEvent
		ignored bool
	}{
		{name: "plain div", event: entities.KeyEvent{Key: "a", Code: "KeyA", Target: &entities.EventTarget{Tag: "DIV"}}},
		{name: "input", event: entities.KeyEvent{Key: "a", Code: "KeyA", Target: &entities.EventTarget{Tag: "INPUT"}}, ignored: true},
		{name: "textarea", event: entities.KeyEvent{Key: "a", Code: "KeyA", Target: &entities.EventTarget{Tag: "textarea"}}, ignored: true},
		{name: "textbox role", event: entities.KeyEvent{Key: "a", Code: "KeyA", Target: &entities.EventTarget{Tag: "DIV", Role: "textbox"}}, ignored: true},
		{name: "combobox role", event: entities.KeyEvent{Key: "a", Code: "KeyA", Target: &entities.EventTarget{Tag: "DIV", Role: "combobox"}}, ignored: true},
		{
			name: "custom element wrapping input",
			event: entities.KeyEvent{
				Key: "a", Code: "KeyA", Composed: true,
				Target:     &entities.EventTarget{Tag: "MY-FIELD"},
				PathTarget: &entities.EventTarget{Tag: "INPUT"},
			},
			ignored: true,
		},
		{
			name: "custom element not composed",
			event: entities.KeyEvent{
				Key: "a", Code: "KeyA",
				Target:     &entities.EventTarget{Tag: "MY-FIELD"},
				PathTarget: &entities.EventTarget{Tag: "INPUT"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, tracker := newFixture()
			tracker.HandleKeyDown(tt.event)
			if got := !s.State().PressedKeys.Has("a"); got != tt.ignored {
				t.Errorf("expected ignored=%v, got %v", tt.ignored, got)
			}
		})
	}
}

func TestKeyUpFromInputStillReleases(t *testing.T) {
	s, _, tracker := newFixture()

	tracker.HandleKeyDown(key("Meta"))
	tracker.HandleKeyUp(entities.KeyEvent{Key: "Meta", Code: "MetaLeft", Target: &entities.EventTarget{Tag: "INPUT"}})

	if s.State().PressedKeys.Has("Meta") {
		t.Errorf("key released inside an input stayed pressed")
	}
}

func TestIsKeyPressedIsCaseInsensitiveForCharacters(t *testing.T) {
	pressed := entities.NewKeySet("Meta", "c")

	if !IsKeyPressed(pressed, "C") {
		t.Errorf("expected C to match c")
	}
	if IsKeyPressed(pressed, "meta") {
		t.Errorf("named keys must match exactly")
	}
}

func TestAllPressedRequiresEveryKey(t *testing.T) {
	hotkey := entities.Hotkey{"Meta", "C"}

	if AllPressed(entities.NewKeySet("Meta"), hotkey) {
		t.Errorf("only Meta held must not activate")
	}
	if !AllPressed(entities.NewKeySet("Meta", "c"), hotkey) {
		t.Errorf("Meta+c must activate")
	}
	if AllPressed(entities.NewKeySet("Meta"), nil) {
		t.Errorf("empty hotkey must never be pressed")
	}
}

func TestWithoutKeysStripsBothCases(t *testing.T) {
	state := entities.NewState()
	state.PressedKeys = entities.NewKeySet("c", "C", "Meta", "Shift")
	state.KeyPressTimestamps = map[string]time.Time{"c": {}, "C": {}, "Meta": {}, "Shift": {}}

	next := WithoutKeys(state, "C", "Meta")

	if got := next.PressedKeys.Keys(); len(got) != 1 || got[0] != "Shift" {
		t.Errorf("expected only Shift left, got %v", got)
	}
	if len(next.KeyPressTimestamps) != 1 {
		t.Errorf("expected one timestamp left, got %v", next.KeyPressTimestamps)
	}
	if len(state.KeyPressTimestamps) != 4 {
		t.Errorf("input timestamps were mutated")
	}
}
