package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalize returns the E.164 form of raw, parsed with region as the default
// country. Input that does not parse falls back to its digits only, so
// "555-0100" and "(555) 0100" still compare equal.
func Normalize(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = "US"
	}

	parsed, err := phonenumbers.Parse(raw, region)
	if err == nil && phonenumbers.IsPossibleNumber(parsed) {
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return digits(raw)
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Matches reports whether the digits of query occur in number. A query that
// is a complete number also matches the same number stored in another form,
// such as "+1 202 555 0143" against "(202) 555-0143". Queries shorter than
// three digits never match.
func Matches(number, query, region string) bool {
	q := digits(query)
	if len(q) < 3 {
		return false
	}
	if strings.Contains(digits(number), q) {
		return true
	}
	if region == "" {
		region = "US"
	}
	full, err := phonenumbers.Parse(strings.TrimSpace(query), region)
	if err != nil || !phonenumbers.IsPossibleNumber(full) {
		return false
	}
	return Normalize(number, region) == phonenumbers.Format(full, phonenumbers.E164)
}
