package entities

import "strings"

// EventKind represents the kind of page event the tool listens to
type EventKind string

const (
	EventKeyDown          EventKind = "keydown"
	EventKeyUp            EventKind = "keyup"
	EventBlur             EventKind = "blur"
	EventContextMenu      EventKind = "contextmenu"
	EventMouseMove        EventKind = "mousemove"
	EventMouseDown        EventKind = "mousedown"
	EventClick            EventKind = "click"
	EventScroll           EventKind = "scroll"
	EventResize           EventKind = "resize"
	EventVisibilityChange EventKind = "visibilitychange"
)

// PrimaryButton is the mouse button value of a main-button press
const PrimaryButton = 0

// Event represents a single page event; only the field matching Kind is set
type Event struct {
	Kind  EventKind   `json:"type"`
	Key   *KeyEvent   `json:"key,omitempty"`
	Mouse *MouseEvent `json:"mouse,omitempty"`
	// Hidden is the document visibility for visibilitychange events
	Hidden bool `json:"hidden,omitempty"`
}

// EventTarget describes the node an event was dispatched to
type EventTarget struct {
	Tag  string `json:"tag"`
	Role string `json:"role"`
}

// IsCustomElement - reports whether the target is an autonomous custom element
func (t EventTarget) IsCustomElement() bool {
	return t.Tag != "" && !strings.HasPrefix(t.Tag, "-") && strings.Contains(t.Tag, "-")
}

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key string `json:"key"`
	// Code may be empty for real keys, such as IME composition or virtual keyboards
	Code string `json:"code"`
	// NoCode is set when the browser reported no code at all (synthetic or autofill events)
	NoCode   bool         `json:"noCode,omitempty"`
	Target   *EventTarget `json:"target,omitempty"`
	Composed bool         `json:"composed"`
	// PathTarget is the first node of the composed path, inside any shadow root
	PathTarget *EventTarget `json:"pathTarget,omitempty"`
}

// MouseEvent represents a pointer event in viewport coordinates
type MouseEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`

	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault - marks the event's default action as suppressed
func (e *MouseEvent) PreventDefault() {
	e.defaultPrevented = true
}

// StopPropagation - marks the event as not reaching further listeners
func (e *MouseEvent) StopPropagation() {
	e.propagationStopped = true
}

// DefaultPrevented - reports whether PreventDefault was called
func (e *MouseEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// PropagationStopped - reports whether StopPropagation was called
func (e *MouseEvent) PropagationStopped() bool {
	return e.propagationStopped
}
