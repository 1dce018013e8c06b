package util

import "strings"

// Excerpt collapses whitespace and cuts s to maxRunes characters (rune-based),
// appending "..." when something was dropped.
func Excerpt(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
