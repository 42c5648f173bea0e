package entities

import "time"

// GrabResult describes one settled grab sequence
type GrabResult struct {
	Target Element   `json:"target"`
	Text   string    `json:"text,omitempty"`
	Err    error     `json:"-"`
	At     time.Time `json:"at"`
}

// Succeeded - reports whether the grab delivered its text
func (r GrabResult) Succeeded() bool {
	return r.Err == nil
}

// ReferenceBlock - wraps a description the way it is delivered
func ReferenceBlock(text string) string {
	return "\n\n<referenced_element>\n" + text + "\n</referenced_element>"
}
