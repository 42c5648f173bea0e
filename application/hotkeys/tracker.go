// Package hotkeys tracks pressed keys in the store and detects held key combinations.
package hotkeys

import (
	"time"

	"element_grab/application/store"
	"element_grab/domain/entities"
	"element_grab/domain/interfaces"
)

// Tracker mirrors keyboard state into the store
type Tracker struct {
	store *store.Store[entities.State]
	clock interfaces.Clock
}

// NewTracker - creates a tracker writing to s
func NewTracker(s *store.Store[entities.State], clock interfaces.Clock) *Tracker {
	return &Tracker{store: s, clock: clock}
}

// Attach - registers the tracker's listeners and returns a function removing all of them
func (t *Tracker) Attach(target interfaces.EventTarget) (detach func()) {
	removers := []func(){
		target.AddListener(entities.EventKeyDown, func(ev entities.Event) {
			if ev.Key != nil {
				t.HandleKeyDown(*ev.Key)
			}
		}),
		target.AddListener(entities.EventKeyUp, func(ev entities.Event) {
			if ev.Key != nil {
				t.HandleKeyUp(*ev.Key)
			}
		}),
		target.AddListener(entities.EventBlur, func(entities.Event) { t.HandleBlur() }),
		target.AddListener(entities.EventContextMenu, func(entities.Event) { t.HandleContextMenu() }),
	}

	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}

// HandleKeyDown - records a key press; the timestamp is kept across auto-repeat
func (t *Tracker) HandleKeyDown(ev entities.KeyEvent) {
	if IsTriggeredByInput(ev) {
		return
	}
	if ev.NoCode {
		return
	}

	now := t.clock.Now()
	t.store.SetState(func(state entities.State) entities.State {
		if state.PressedKeys.Has(ev.Key) {
			return state
		}
		timestamps := copyTimestamps(state.KeyPressTimestamps)
		timestamps[ev.Key] = now
		state.KeyPressTimestamps = timestamps
		state.PressedKeys = state.PressedKeys.With(ev.Key)
		return state
	})
}

// HandleKeyUp - forgets a key
func (t *Tracker) HandleKeyUp(ev entities.KeyEvent) {
	if ev.NoCode {
		return
	}

	t.store.SetState(func(state entities.State) entities.State {
		timestamps := copyTimestamps(state.KeyPressTimestamps)
		delete(timestamps, ev.Key)
		state.KeyPressTimestamps = timestamps
		state.PressedKeys = state.PressedKeys.Without(ev.Key)
		return state
	})
}

// HandleBlur - clears all key state when the page loses focus
func (t *Tracker) HandleBlur() {
	t.reset()
}

// HandleContextMenu - clears all key state; the menu swallows the matching keyups
func (t *Tracker) HandleContextMenu() {
	t.reset()
}

func (t *Tracker) reset() {
	t.store.SetState(func(state entities.State) entities.State {
		state.KeyPressTimestamps = map[string]time.Time{}
		state.PressedKeys = entities.EmptyKeySet()
		return state
	})
}

func copyTimestamps(in map[string]time.Time) map[string]time.Time {
	out := make(map[string]time.Time, len(in)+1)
	for key, at := range in {
		out[key] = at
	}
	return out
}
