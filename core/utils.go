package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s`.
func CleanString(s string) string {
	return strings.TrimSpace(s)
}

// CleanTitle trims `s` and collapses inner whitespace runs (newlines and tabs included) into single spaces,
// so that a title renders on one line in the course outline.
func CleanTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
