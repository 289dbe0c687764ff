package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{"us national", "(202) 555-0143", "US", "+12025550143"},
		{"us default region", "202.555.0143", "", "+12025550143"},
		{"already e164", "+442071838750", "US", "+442071838750"},
		{"too short falls back to digits", "555-01", "US", "55501"},
		{"empty", "   ", "US", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw, tt.region))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("(202) 555-0143", "555-0143", "US"))
	assert.True(t, Matches("(202) 555-0143", "+1 202 555 0143", "US"))
	assert.True(t, Matches("202-555-0143", "2025550143", "US"))
	assert.False(t, Matches("(202) 555-0143", "999", "US"))
	assert.False(t, Matches("(202) 555-0143", "55", "US"), "short queries never match")
	assert.False(t, Matches("(202) 555-0143", "bob", "US"))
}

func TestMatchesFullNumberAcrossFormats(t *testing.T) {
	assert.True(t, Matches("020 7183 8750", "+44 20 7183 8750", "GB"))
	assert.True(t, Matches("2025550143", "+1 (202) 555-0143", ""))
	assert.False(t, Matches("2025550143", "+1 (202) 555-0199", "US"))
	// a partial query with a country code is a plain digit search
	assert.False(t, Matches("2025550143", "+1 555", "US"))
	assert.True(t, Matches("+1 202 555 0143", "+1 202", "US"))
}
