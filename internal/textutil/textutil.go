package textutil

import (
	"strings"
	"unicode"
)

// Slug lowercases s and joins its letter/digit runs with sep. Other characters
// act as word boundaries. At most maxWords words are kept when maxWords > 0.
func Slug(s, sep string, maxWords int) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, sep)
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
