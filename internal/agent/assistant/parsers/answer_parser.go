package parsers

import (
	"strings"
	"unicode"

	errx "github.com/property-assistant/server/internal/core/error"
)

// SanitizeAnswer prepares prose output for display. It normalizes line endings,
// strips control characters other than newline and tab, and trims. Empty
// output is a malformed response.
func SanitizeAnswer(text string) (string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, text)

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", errx.Malformed("empty response")
	}
	return cleaned, nil
}
