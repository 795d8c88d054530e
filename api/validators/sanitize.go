package validators

import "strings"

// SanitizeString trims whitespace and caps the value at maxLen runes, so a
// boundary cut never leaves a broken UTF-8 sequence in names or addresses.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return trimmed
}
