// Package search implements the free-text matching used by the lead and
// customer listings.
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns s case-folded and trimmed. It handles forms such as "ß" and
// the Greek final sigma that strings.ToLower leaves distinct.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Contains reports whether any of fields contains term, ignoring case.
// An empty term matches everything.
func Contains(term string, fields ...string) bool {
	t := Fold(term)
	if t == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), t) {
			return true
		}
	}
	return false
}
