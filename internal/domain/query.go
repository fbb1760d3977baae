package domain

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// Result limits requested from the provider.
const (
	countryLimit      = 10
	domesticLimit     = 5
	unrestrictedLimit = 15
)

// QueryOptions narrows a provider query. Empty fields are not sent.
type QueryOptions struct {
	CountryCode string `json:"country_code,omitempty"`
	Language    string `json:"language,omitempty"`
	Limit       int    `json:"limit"`
}

// QueryOptionsFor decides how to query the provider for address. A country
// code supplied by the caller wins; otherwise addresses that mention a
// domestic keyword (a major city or the country name) are restricted to the
// domestic country and language, and everything else is sent unrestricted
// with a wider result window.
func (s *Selector) QueryOptionsFor(address, countryCode string) QueryOptions {
	if cc := strings.ToLower(strings.TrimSpace(countryCode)); cc != "" {
		return QueryOptions{CountryCode: cc, Limit: countryLimit}
	}
	if s.IsDomestic(address) {
		return QueryOptions{
			CountryCode: s.locale.DomesticCountryCode,
			Language:    s.locale.Language,
			Limit:       domesticLimit,
		}
	}
	return QueryOptions{Limit: unrestrictedLimit}
}

// IsDomestic reports whether address mentions one of the locale keywords.
// Accents are ignored, so "Forlì" and "Forli" are the same word.
func (s *Selector) IsDomestic(address string) bool {
	folded := " " + foldKeyword(address) + " "
	for _, kw := range s.keywords {
		if strings.Contains(folded, " "+kw+" ") {
			return true
		}
	}
	return false
}

// foldKeyword transliterates to ASCII, lower-cases and keeps only letter runs
// separated by single spaces.
func foldKeyword(s string) string {
	words := strings.FieldsFunc(strings.ToLower(unidecode.Unidecode(s)), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	return strings.Join(words, " ")
}
