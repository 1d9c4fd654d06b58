// Package voice implements the voice-skill core: canonicalizing spoken
// text, resolving loosely-spoken names to reference identifiers, and
// dispatching platform intents to reading operations against the store.
package voice

import "strings"

// Normalize reduces free-form spoken text to a canonical comparable form:
// lowercase, alphanumeric and space only, whitespace collapsed to single
// spaces, trimmed. Empty input yields an empty string. Normalize is pure
// and idempotent.
func Normalize(raw string) string {
	lower := strings.ToLower(raw)

	filtered := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			return r
		}
		return -1
	}, lower)

	// Fields both collapses runs of spaces and trims the ends.
	return strings.Join(strings.Fields(filtered), " ")
}
