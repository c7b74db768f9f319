// File: internal/services/assistant/classifier.go
package assistant

import "strings"

// sqlPrefix is the literal marker a user puts in front of a message to ask
// for SQL generation instead of conversation.
const sqlPrefix = "generate sql:"

// IsSQLRequest reports whether the message asks for SQL generation. A message
// is a SQL request iff it starts, case-insensitively, with "generate sql:".
// The returned question is the remainder after the prefix, trimmed.
func IsSQLRequest(text string) (question string, ok bool) {
	if len(text) < len(sqlPrefix) {
		return "", false
	}
	if !strings.EqualFold(text[:len(sqlPrefix)], sqlPrefix) {
		return "", false
	}
	return strings.TrimSpace(text[len(sqlPrefix):]), true
}
