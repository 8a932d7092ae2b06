package utils

import (
	"regexp"
	"strings"
)

// Field validation predicates. Pure functions over raw form strings, shared
// verbatim between the signup, login, post and comment paths so no two
// handlers can drift apart on what counts as valid.

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidUsername accepts 3-20 characters from letters, digits, underscore and hyphen.
func ValidUsername(raw string) bool {
	return usernameRe.MatchString(raw)
}

// ValidPassword accepts 3-20 characters that are not all whitespace.
func ValidPassword(raw string) bool {
	if len(raw) < 3 || len(raw) > 20 {
		return false
	}
	return strings.TrimSpace(raw) != ""
}

// ValidEmail accepts the empty string (the field is optional) or a basic
// local@domain.tld shape of at most 100 characters.
func ValidEmail(raw string) bool {
	if raw == "" {
		return true
	}
	if len(raw) > 100 {
		return false
	}
	return emailRe.MatchString(raw)
}

// ValidTitle requires a non-empty title after trimming.
func ValidTitle(raw string) bool {
	return strings.TrimSpace(raw) != ""
}

// ValidContent requires non-empty content after trimming.
func ValidContent(raw string) bool {
	return strings.TrimSpace(raw) != ""
}
