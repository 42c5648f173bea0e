package hotkeys

import (
	"time"

	"element_grab/domain/entities"
)

// IsKeyPressed - reports whether key is in pressed; single characters match in either case
func IsKeyPressed(pressed *entities.KeySet, key string) bool {
	for _, variant := range entities.Variants(key) {
		if pressed.Has(variant) {
			return true
		}
	}
	return false
}

// AllPressed - reports whether every key of hotkey is pressed.
// An empty hotkey is never pressed.
func AllPressed(pressed *entities.KeySet, hotkey entities.Hotkey) bool {
	if len(hotkey) == 0 {
		return false
	}
	for _, key := range hotkey {
		if !IsKeyPressed(pressed, key) {
			return false
		}
	}
	return true
}

// HeldSince - returns when the whole hotkey became held: the latest press among its keys.
// ok is false when a key has no recorded press.
func HeldSince(timestamps map[string]time.Time, hotkey entities.Hotkey) (since time.Time, ok bool) {
	for _, key := range hotkey {
		pressedAt, found := pressTime(timestamps, key)
		if !found {
			return time.Time{}, false
		}
		if pressedAt.After(since) {
			since = pressedAt
		}
	}
	return since, len(hotkey) > 0
}

func pressTime(timestamps map[string]time.Time, key string) (time.Time, bool) {
	var (
		earliest time.Time
		found    bool
	)
	for _, variant := range entities.Variants(key) {
		at, ok := timestamps[variant]
		if !ok {
			continue
		}
		if !found || at.Before(earliest) {
			earliest = at
			found = true
		}
	}
	return earliest, found
}

// WithoutKeys - removes keys, and both cases of single-character keys, from the pressed set and timestamps
func WithoutKeys(state entities.State, keys ...string) entities.State {
	var variants []string
	for _, key := range keys {
		variants = append(variants, entities.Variants(key)...)
	}

	timestamps := make(map[string]time.Time, len(state.KeyPressTimestamps))
	for key, at := range state.KeyPressTimestamps {
		timestamps[key] = at
	}
	for _, key := range variants {
		delete(timestamps, key)
	}

	state.PressedKeys = state.PressedKeys.Without(variants...)
	state.KeyPressTimestamps = timestamps
	return state
}
