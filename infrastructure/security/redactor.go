// Package security scrubs sensitive values from grabbed markup.
package security

import (
	"regexp"
	"strings"
	"unicode"

	"element_grab/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Mask replaces every redacted value
const Mask = "[redacted]"

var (
	tagPattern       = regexp.MustCompile(`<[a-zA-Z][^<>]*>`)
	attributePattern = regexp.MustCompile(`([a-zA-Z_:][-a-zA-Z0-9_:.]*)\s*=\s*("[^"]*"|'[^']*')`)
)

// sensitiveKeywords mark attribute names, and field names or ids, that hold secrets.
// Each entry matches whole consecutive segments of a name, so "auth" matches
// "x-auth-token" but not "data-author".
var sensitiveKeywords = [][]string{
	{"password"}, {"passwd"}, {"pwd"},
	{"token"}, {"secret"}, {"credential"}, {"credentials"},
	{"apikey"}, {"api", "key"},
	{"auth"}, {"authorization"}, {"session"}, {"sessionid"},
	{"csrf"}, {"xsrf"}, {"otp"},
	{"cardnumber"}, {"card", "number"}, {"cvc"}, {"cvv"},
}

// fieldAttributes name or describe a form field; their values are checked but never masked
var fieldAttributes = map[string]bool{
	"name":         true,
	"id":           true,
	"autocomplete": true,
	"type":         true,
	"for":          true,
	"class":        true,
}

type Redactor struct {
	logger *logrus.Logger
}

func NewRedactor(logger *logrus.Logger) *Redactor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Redactor{
		logger: logger,
	}
}

// Redact - masks secret attribute values and the values of password-like fields
func (r *Redactor) Redact(text string) (string, int) {
	masked := 0
	out := tagPattern.ReplaceAllStringFunc(text, func(tag string) string {
		result, n := redactTag(tag)
		masked += n
		return result
	})

	if masked > 0 {
		r.logger.WithField("masked", masked).Debug("Redacted sensitive values")
	}
	return out, masked
}

func redactTag(tag string) (string, int) {
	attrs := attributePattern.FindAllStringSubmatch(tag, -1)
	if len(attrs) == 0 {
		return tag, 0
	}

	secretField := false
	for _, attr := range attrs {
		name, value := strings.ToLower(attr[1]), unquote(attr[2])
		if name == "type" && strings.EqualFold(value, "password") {
			secretField = true
		}
		if (name == "name" || name == "id" || name == "autocomplete") && IsSensitive(value) {
			secretField = true
		}
	}

	masked := 0
	result := attributePattern.ReplaceAllStringFunc(tag, func(attr string) string {
		parts := attributePattern.FindStringSubmatch(attr)
		name := strings.ToLower(parts[1])
		if fieldAttributes[name] || unquote(parts[2]) == "" {
			return attr
		}
		if (name == "value" && secretField) || IsSensitive(name) {
			masked++
			quote := parts[2][:1]
			return parts[1] + "=" + quote + Mask + quote
		}
		return attr
	})
	return result, masked
}

// IsSensitive - reports whether an attribute or field name suggests a secret
func IsSensitive(name string) bool {
	segments := Segments(name)
	for _, keyword := range sensitiveKeywords {
		if containsRun(segments, keyword) {
			return true
		}
	}
	return false
}

// Segments - splits a name on '-', '_', ':', '.' and camelCase boundaries, lowercased
func Segments(name string) []string {
	runes := []rune(name)
	var (
		segments []string
		current  []rune
	)
	flush := func() {
		if len(current) > 0 {
			segments = append(segments, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ':' || r == '.' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return segments
}

func containsRun(segments, run []string) bool {
	for i := 0; i+len(run) <= len(segments); i++ {
		matched := true
		for j, word := range run {
			if segments[i+j] != word {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func unquote(value string) string {
	if len(value) >= 2 {
		return value[1 : len(value)-1]
	}
	return value
}

// Ensure Redactor implements Redactor interface
var _ interfaces.Redactor = (*Redactor)(nil)
