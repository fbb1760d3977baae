package domain

import (
	"fmt"
	"strings"
)

// IsKnownMismatch reports whether pairing city with inputProvince is a
// registered impossible combination, either because the city lists the
// province as forbidden or because the user named a major province that the
// provider's geocodedProvince does not correspond to under any alias.
//
// It never decides whether a candidate is accepted; it only chooses between
// the "invalid geographic combination" and "province mismatch" diagnostics.
func (s *Selector) IsKnownMismatch(city, inputProvince, geocodedProvince string) bool {
	in := normalizeName(inputProvince)
	if in == "" {
		return false
	}

	for _, forbidden := range s.mismatches[normalizeName(city)] {
		if containsPhrase(in, forbidden) {
			return true
		}
	}

	geo := normalizeName(geocodedProvince)
	if geo == "" {
		return false
	}
	canonical, ok := s.canonicalProvince(in)
	if !ok {
		return false
	}
	if containsPhrase(geo, canonical) {
		return false
	}
	for _, alias := range s.aliases[canonical] {
		if containsPhrase(geo, alias) {
			return false
		}
	}
	return true
}

// canonicalProvince resolves a province name, code or alias to the major
// province it names.
func (s *Selector) canonicalProvince(name string) (string, bool) {
	name = normalizeName(name)
	if name == "" {
		return "", false
	}
	for canonical, aliases := range s.aliases {
		if containsPhrase(name, canonical) {
			return canonical, true
		}
		for _, alias := range aliases {
			if name == alias {
				return canonical, true
			}
		}
	}
	return "", false
}

// provinceMatches compares the user's province against the candidate's
// county, county code and the alias table. Two-letter codes are compared
// exactly since any two of them are within fuzzy distance.
func (s *Selector) provinceMatches(input string, c Components) bool {
	in := normalizeName(input)
	if strings.EqualFold(in, c.CountyCode) || strings.EqualFold(in, c.County) {
		return true
	}
	if len([]rune(in)) > 2 && c.County != "" && FuzzyMatch(in, c.County) {
		return true
	}

	want, ok := s.canonicalProvince(in)
	if !ok {
		return false
	}
	for _, v := range []string{c.County, c.CountyCode} {
		if got, ok := s.canonicalProvince(v); ok && got == want {
			return true
		}
	}
	return false
}

func hasProvince(c Components) bool {
	return c.County != "" || c.CountyCode != ""
}

// provinceDiagnostic describes why the candidate's province was rejected.
func (s *Selector) provinceDiagnostic(p ParsedAddress, c Components) string {
	county := c.County
	if county == "" {
		county = c.CountyCode
	}
	city := c.Locality()
	if city == "" {
		city = p.City
	}
	if s.IsKnownMismatch(city, p.Province, county) {
		return fmt.Sprintf("invalid geographic combination: %s is not in the province of %s", city, p.Province)
	}
	return fmt.Sprintf("province mismatch: expected %s, found %s", p.Province, county)
}

// containsPhrase reports whether needle occurs in haystack on word
// boundaries. Both are expected to be normalized.
func containsPhrase(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}
