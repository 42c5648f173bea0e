package entities

import "strings"

// Hotkey is the activation combination; every key must be held at the same time.
// A single-key hotkey has one entry.
type Hotkey []string

// Keys returned for Escape handling
const (
	KeyEscape      = "Escape"
	KeyEscapeShort = "Esc"
)

// ParseHotkey - splits a comma separated key list, trimming whitespace and dropping empty entries
func ParseHotkey(value string) Hotkey {
	var keys Hotkey
	for _, part := range strings.Split(value, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// String - formats the hotkey the way it is configured
func (h Hotkey) String() string {
	return strings.Join(h, "+")
}

// Variants - returns the key identifiers that count as key.
// Single characters match in both cases.
func Variants(key string) []string {
	if len([]rune(key)) == 1 {
		lower, upper := strings.ToLower(key), strings.ToUpper(key)
		if lower == upper {
			return []string{key}
		}
		return []string{lower, upper}
	}
	return []string{key}
}
