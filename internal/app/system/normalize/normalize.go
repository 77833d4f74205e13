// Package normalize provides small canonicalization helpers applied before
// store writes, so lookups by email or status never miss on case or
// whitespace differences.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status lowercases and trims a verification status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// VoteType lowercases and trims a vote value (green, red, none).
func VoteType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
