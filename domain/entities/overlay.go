package entities

// Selection is the highlight drawn over the hovered element
type Selection struct {
	Geometry Geometry `json:"geometry"`
	Visible  bool     `json:"visible"`
	// Interactive lets the highlight itself receive clicks
	Interactive bool `json:"interactive"`
}

// Label is the small tag-name label shown above the hovered element
type Label struct {
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Text    string  `json:"text"`
}

// Progress is the hold progress bar that follows the pointer
type Progress struct {
	Visible bool    `json:"visible"`
	Value   float64 `json:"value"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// IndicatorKind represents the kind of transient grab indicator
type IndicatorKind string

const (
	IndicatorGrabbed    IndicatorKind = "grabbed"
	IndicatorProcessing IndicatorKind = "processing"
	IndicatorSucceeded  IndicatorKind = "succeeded"
	IndicatorFading     IndicatorKind = "fading"
	IndicatorRemoved    IndicatorKind = "removed"
)

// Indicator is a transient grab indicator identified by ID
type Indicator struct {
	ID       int           `json:"id"`
	Kind     IndicatorKind `json:"kind"`
	Geometry Geometry      `json:"geometry"`
	Text     string        `json:"text"`
}

// TagLabel - formats a tag name the way labels show it
func TagLabel(tag string) string {
	if tag == "" {
		return "<element>"
	}
	return "<" + tag + ">"
}
