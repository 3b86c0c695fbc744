package auth

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Every lookup and insert goes through it so the store compares one form only.
func NormalizeEmail(email string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}
