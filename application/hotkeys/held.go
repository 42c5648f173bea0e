package hotkeys

import (
	"time"

	"element_grab/application/store"
	"element_grab/domain/entities"
	"element_grab/domain/interfaces"
)

type holdWatcher struct {
	store    *store.Store[entities.State]
	clock    interfaces.Clock
	hotkey   entities.Hotkey
	duration time.Duration
	onHeld   func()

	startedAt   time.Time
	timer       interfaces.Timer
	unsubscribe func()
	done        bool
}

// WatchKeyHeldFor - calls onHeld once after every key of hotkey has been held for duration.
//
// A release cancels the pending timer but the watcher keeps running; pressing the
// combination again starts a new wait. Time the combination was already held before
// the call counts, so an already satisfied hold fires before WatchKeyHeldFor returns.
// The returned function cancels the watcher.
func WatchKeyHeldFor(s *store.Store[entities.State], clock interfaces.Clock, hotkey entities.Hotkey, duration time.Duration, onHeld func()) (cancel func()) {
	w := &holdWatcher{
		store:     s,
		clock:     clock,
		hotkey:    hotkey,
		duration:  duration,
		onHeld:    onHeld,
		startedAt: clock.Now(),
	}

	w.unsubscribe = store.Select(s, func(state entities.State) *entities.KeySet {
		return state.PressedKeys
	}, func(*entities.KeySet, *entities.KeySet) {
		w.check()
	})

	w.check()

	return w.cleanup
}

func (w *holdWatcher) check() {
	if w.done {
		return
	}

	state := w.store.State()
	if !AllPressed(state.PressedKeys, w.hotkey) {
		w.stopTimer()
		return
	}

	since, ok := HeldSince(state.KeyPressTimestamps, w.hotkey)
	if !ok {
		since = w.startedAt
	}
	remaining := w.duration - w.clock.Now().Sub(since)
	if remaining <= 0 {
		w.fire()
		return
	}

	w.stopTimer()
	w.timer = w.clock.AfterFunc(remaining, w.fire)
}

func (w *holdWatcher) fire() {
	if w.done {
		return
	}
	w.cleanup()
	w.onHeld()
}

func (w *holdWatcher) stopTimer() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *holdWatcher) cleanup() {
	w.done = true
	w.stopTimer()
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}
