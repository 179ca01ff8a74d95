package recovery

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty stays empty", "", ""},
		{"repeated remote collapses", "remote, remote, Berlin", "Remote, Berlin"},
		{"remote marker variants", "Work from home / Prague", "Remote, Prague"},
		{"dedup case-insensitive", "Berlin, berlin, BERLIN", "Berlin"},
		{"title-cased tokens", "new york, london", "New York, London"},
		{"mixed case preserved", "NYC, berlin", "NYC, Berlin"},
		{"acronym preserved", "EMEA, remote", "Remote, EMEA"},
		{"label prefix stripped", "Location: Vienna", "Vienna"},
		{"separator variants", "Prague; Brno | Ostrava", "Prague, Brno, Ostrava"},
		{"only remote", "Remote", "Remote"},
		{"parenthesised remote", "(Remote)", "Remote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLocation(tt.in))
		})
	}
}

func TestExtractLocationFromTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing parenthetical", "Product Manager (Berlin)", "Berlin"},
		{"trailing dash segment", "Data Analyst - Prague", "Prague"},
		{"trailing en-dash segment", "Data Engineer – Berlin", "Berlin"},
		{"trailing em-dash segment", "Data Engineer — Berlin", "Berlin"},
		{"trailing comma segment", "Sales Representative, London", "London"},
		{"role segment not a location", "Engineering Manager - Backend", ""},
		{"long segment not a location", "Engineer - building the next generation of data tooling", ""},
		{"no fragment", "Software Engineer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLocationFromTitle(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
