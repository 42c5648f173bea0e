// Package machine holds the overlay mode transition table.
package machine

import "element_grab/domain/entities"

// Input represents something that can move the overlay mode
type Input int

const (
	// HoldCompleted - the hotkey was held for the configured duration
	HoldCompleted Input = iota
	// HotkeyReleased - the hotkey is no longer fully held
	HotkeyReleased
	// EscapePressed - Escape or Esc was observed in the pressed keys
	EscapePressed
	// PageHidden - the document became hidden
	PageHidden
	// PrimaryMouseDown - a main-button press reached the page
	PrimaryMouseDown
	// CopyStartedHeld - the grab sequence started while the hotkey is still held
	CopyStartedHeld
	// CopyStartedReleased - the grab sequence started after the hotkey was released
	CopyStartedReleased
)

var inputNames = map[Input]string{
	HoldCompleted:       "hold-completed",
	HotkeyReleased:      "hotkey-released",
	EscapePressed:       "escape-pressed",
	PageHidden:          "page-hidden",
	PrimaryMouseDown:    "primary-mousedown",
	CopyStartedHeld:     "copy-started-held",
	CopyStartedReleased: "copy-started-released",
}

func (i Input) String() string {
	if name, ok := inputNames[i]; ok {
		return name
	}
	return "unknown"
}

// Transition - returns the mode after input; changed is false when input does not apply to mode
func Transition(mode entities.OverlayMode, input Input) (next entities.OverlayMode, changed bool) {
	switch input {
	case EscapePressed, HotkeyReleased, PageHidden:
		next = entities.ModeHidden
	case HoldCompleted:
		if mode != entities.ModeHidden {
			return mode, false
		}
		next = entities.ModeVisible
	case PrimaryMouseDown:
		if mode != entities.ModeVisible {
			return mode, false
		}
		next = entities.ModeCopying
	case CopyStartedHeld:
		if mode != entities.ModeCopying {
			return mode, false
		}
		next = entities.ModeVisible
	case CopyStartedReleased:
		if mode != entities.ModeCopying {
			return mode, false
		}
		next = entities.ModeHidden
	default:
		return mode, false
	}
	return next, next != mode
}

// Intercepts - reports whether page clicks are suppressed in mode
func Intercepts(mode entities.OverlayMode) bool {
	return mode != entities.ModeHidden
}

// CopyStarted - picks the input describing a grab start
func CopyStarted(stillHeld bool) Input {
	if stillHeld {
		return CopyStartedHeld
	}
	return CopyStartedReleased
}
