package utils

import "strings"

// Excerpt flattens s onto one line and cuts it to limit runes, marking the
// cut with "...". A non-positive limit returns an empty string.
func Excerpt(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRight(string(runes[:limit]), " ") + "..."
}
