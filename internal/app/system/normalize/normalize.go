// Package normalize canonicalizes user-entered identity fields before they
// are stored or used in lookups, so "  User@Example.COM " and
// "user@example.com" are the same account.
package normalize

import "strings"

// Email trims whitespace and lowercases.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username trims surrounding whitespace. Usernames stay case-sensitive;
// only the accidental padding from copy-paste is removed.
func Username(s string) string {
	return strings.TrimSpace(s)
}
