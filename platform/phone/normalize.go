// Package phone normalizes phone numbers to E.164 for notification delivery.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion is used when a number carries no international prefix.
const defaultRegion = "IE"

// Normalize parses a free-text phone number and returns it in E.164 format.
// Returns an empty string when the input is empty or cannot be parsed as a
// valid number; callers treat that as "no SMS channel available".
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return ""
	}

	return phonenumbers.Format(parsed, phonenumbers.E164)
}
