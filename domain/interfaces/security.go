package interfaces

// Redactor scrubs sensitive values from element descriptions before they leave the page
type Redactor interface {
	// Redact returns text with sensitive values masked and how many values were masked
	Redact(text string) (string, int)
}
