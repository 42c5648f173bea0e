package entities

import "strings"

// Rect represents an element's border box in viewport pixels
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style holds the computed style properties the tool cares about
type Style struct {
	Display       string `json:"display"`
	Visibility    string `json:"visibility"`
	Opacity       string `json:"opacity"`
	PointerEvents string `json:"pointerEvents"`
	BorderRadius  string `json:"borderRadius"`
	Transform     string `json:"transform"`
}

// Element represents a snapshot of an element on the live page.
// ID is stable for the lifetime of the node and is the only identity the tool uses;
// the node itself stays owned by the page.
type Element struct {
	ID       string `json:"id"`
	Tag      string `json:"tag"`
	Rect     Rect   `json:"rect"`
	Style    Style  `json:"style"`
	Disabled bool   `json:"disabled"`
	// Owned marks nodes that belong to the tool's own overlay subtree
	Owned bool `json:"owned"`
}

// IsVisible - reports whether the computed style renders the element
func (s Style) IsVisible() bool {
	return s.Display != "none" && s.Visibility != "hidden" && s.Opacity != "0"
}

// TagName - returns the lower-cased tag name
func (e Element) TagName() string {
	return strings.ToLower(e.Tag)
}

// Same - reports whether both snapshots refer to the same node
func (e Element) Same(other Element) bool {
	return e.ID != "" && e.ID == other.ID
}

// AcceptsPointer - reports whether a click on the element reaches it
func (e Element) AcceptsPointer() bool {
	return !e.Disabled && e.Style.PointerEvents != "none"
}

// Geometry returns the visual box used by the highlight and grabbed overlays
func (e Element) Geometry() Geometry {
	radius := e.Style.BorderRadius
	if radius == "" {
		radius = "0px"
	}
	transform := e.Style.Transform
	if transform == "" {
		transform = "none"
	}
	return Geometry{
		X:            e.Rect.X,
		Y:            e.Rect.Y,
		Width:        e.Rect.Width,
		Height:       e.Rect.Height,
		BorderRadius: radius,
		Transform:    transform,
	}
}

// Geometry represents a positioned box drawn by the overlay
type Geometry struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	BorderRadius string  `json:"borderRadius"`
	Transform    string  `json:"transform"`
}

// Lerp - moves g toward target by factor, keeping the target's non-numeric properties
func (g Geometry) Lerp(target Geometry, factor float64) Geometry {
	return Geometry{
		X:            lerp(g.X, target.X, factor),
		Y:            lerp(g.Y, target.Y, factor),
		Width:        lerp(g.Width, target.Width, factor),
		Height:       lerp(g.Height, target.Height, factor),
		BorderRadius: target.BorderRadius,
		Transform:    target.Transform,
	}
}

func lerp(start, end, factor float64) float64 {
	return start + (end-start)*factor
}
