// Package formfield maps list-valued entity fields to the comma-separated
// text an edit form holds, and back.
package formfield

import "strings"

const separator = ","

// Join renders items as "a, b, c".
func Join(items []string) string {
	return strings.Join(items, separator+" ")
}

// Split parses "a, b,, c " into ["a", "b", "c"]. Blank input yields an empty,
// non-nil slice.
func Split(text string) []string {
	parts := strings.Split(text, separator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Normalize round-trips text through Split and Join.
func Normalize(text string) string {
	return Join(Split(text))
}
