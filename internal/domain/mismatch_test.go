package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKnownMismatch(t *testing.T) {
	s := NewSelector(DefaultLocale())

	tests := []struct {
		name                      string
		city, input, geocodedProv string
		want                      bool
	}{
		{"forbidden province for city", "Firenze", "Milano", "Firenze", true},
		{"forbidden province code", "Firenze", "MI", "", true},
		{"major province matched by canonical name", "Sesto San Giovanni", "Milano", "Città Metropolitana di Milano", false},
		{"major province matched by alias", "Sesto San Giovanni", "Milano", "Metropolitan City of Milan", false},
		{"major province not matched", "Monza", "Milano", "Monza e Brianza", true},
		{"major province given as code", "Monza", "MI", "Monza e Brianza", true},
		{"consistent", "Firenze", "Firenze", "Firenze", false},
		{"unregistered pair", "Pisa", "Lucca", "Pisa", false},
		{"no input province", "Firenze", "", "Milano", false},
		{"no geocoded province for major rule", "Monza", "Milano", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsKnownMismatch(tt.city, tt.input, tt.geocodedProv))
		})
	}
}

func TestIsKnownMismatch_CustomLocale(t *testing.T) {
	s := NewSelector(Locale{
		CityProvinceMismatches: map[string][]string{"Springfield": {"Shelbyville"}},
	})

	assert.True(t, s.IsKnownMismatch("springfield", "SHELBYVILLE", ""))
	assert.False(t, s.IsKnownMismatch("Firenze", "Milano", "Firenze"), "default tables are not consulted")
}

func TestProvinceMatches(t *testing.T) {
	s := NewSelector(DefaultLocale())

	tests := []struct {
		name  string
		input string
		comp  Components
		want  bool
	}{
		{"code", "FI", Components{County: "Firenze", CountyCode: "FI"}, true},
		{"name", "firenze", Components{County: "Firenze"}, true},
		{"typo", "Firenz", Components{County: "Firenze"}, true},
		{"metropolitan city", "Firenze", Components{County: "Città Metropolitana di Firenze"}, true},
		{"english alias", "Florence", Components{County: "Firenze"}, true},
		{"different codes", "MI", Components{CountyCode: "FI"}, false},
		{"different names", "Lucca", Components{County: "Pisa", CountyCode: "PI"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.provinceMatches(tt.input, tt.comp))
		})
	}
}
