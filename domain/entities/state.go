package entities

import "time"

// OverlayMode represents what the overlay shows and which input it intercepts
type OverlayMode string

const (
	ModeHidden  OverlayMode = "hidden"
	ModeVisible OverlayMode = "visible"
	ModeCopying OverlayMode = "copying"
)

// OffscreenPosition is the pointer sentinel used before the first real pointer event
const OffscreenPosition = -1000

// State is the activation-wide state held by the store
type State struct {
	PressedKeys *KeySet
	// KeyPressTimestamps is replaced, never mutated, on every update
	KeyPressTimestamps map[string]time.Time
	MouseX             float64
	MouseY             float64
	OverlayMode        OverlayMode
}

// NewState - returns the initial activation state
func NewState() State {
	return State{
		PressedKeys:        EmptyKeySet(),
		KeyPressTimestamps: map[string]time.Time{},
		MouseX:             OffscreenPosition,
		MouseY:             OffscreenPosition,
		OverlayMode:        ModeHidden,
	}
}

// KeySet is an immutable set of key identifiers.
// Every change returns a new set, so pointer identity tells whether the set changed.
type KeySet struct {
	keys  map[string]struct{}
	order []string
}

var emptyKeySet = &KeySet{keys: map[string]struct{}{}}

// EmptyKeySet - returns the shared empty set
func EmptyKeySet() *KeySet {
	return emptyKeySet
}

// NewKeySet - builds a set from keys, most recent first
func NewKeySet(keys ...string) *KeySet {
	if len(keys) == 0 {
		return emptyKeySet
	}
	set := &KeySet{keys: make(map[string]struct{}, len(keys))}
	for _, key := range keys {
		if _, ok := set.keys[key]; ok {
			continue
		}
		set.keys[key] = struct{}{}
		set.order = append(set.order, key)
	}
	return set
}

// Has - reports whether key is in the set
func (s *KeySet) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.keys[key]
	return ok
}

// Len - returns the number of keys
func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Keys - returns the keys, most recently added first
func (s *KeySet) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// With - returns a set that also contains key; the receiver when key is already present
func (s *KeySet) With(key string) *KeySet {
	if s.Has(key) {
		return s
	}
	return NewKeySet(append([]string{key}, s.Keys()...)...)
}

// Without - returns a set without the given keys; the receiver when nothing is removed
func (s *KeySet) Without(keys ...string) *KeySet {
	drop := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if s.Has(key) {
			drop[key] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return s
	}
	kept := make([]string, 0, s.Len())
	for _, key := range s.order {
		if _, ok := drop[key]; !ok {
			kept = append(kept, key)
		}
	}
	return NewKeySet(kept...)
}
