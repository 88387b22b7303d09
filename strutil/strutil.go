// Package strutil holds the small string predicates shared by the attribute
// tooling.
package strutil

import (
	"strings"
	"unicode"
)

// IsBlank reports whether s is empty or contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// Contains reports whether sub occurs in s. The empty string is contained in
// every string.
func Contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
