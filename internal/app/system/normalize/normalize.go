// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-entered values before they are
// validated or stored. Handlers call these at the edge so stores can
// assume trimmed, consistently cased input.
package normalize

import "strings"

// Email trims whitespace and lowercases.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Phone trims whitespace and drops interior spaces, so "0901 234 567"
// and "0901234567" store the same.
func Phone(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// Status trims whitespace and lowercases.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims whitespace and lowercases.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims whitespace, preserving case for search needles.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
