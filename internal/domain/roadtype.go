package domain

import (
	"strings"
	"unicode"
)

// StripRoadType lower-cases a street name and removes one leading road-type
// word: "Via Roma" becomes "roma". Names without a known road type are
// returned lower-cased and trimmed.
func (s *Selector) StripRoadType(road string) string {
	r := normalizeName(road)
	for _, rt := range s.roadTypes {
		if strings.HasPrefix(r, rt+" ") {
			return strings.TrimSpace(r[len(rt)+1:])
		}
	}
	return r
}

// streetKey is the form streets are compared in without a postcode: road
// type stripped and trailing house numbers ("10", "12/b", "3a") removed.
func (s *Selector) streetKey(street string) string {
	return trimHouseNumber(s.StripRoadType(street))
}

// streetName keeps the road type, so "Via Roma" and "Piazza Roma" differ.
func streetName(street string) string {
	return trimHouseNumber(normalizeName(street))
}

func trimHouseNumber(street string) string {
	tokens := strings.Fields(street)
	for len(tokens) > 1 && strings.IndexFunc(tokens[len(tokens)-1], unicode.IsDigit) >= 0 {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

func (s *Selector) roadMatches(c Candidate, street string) bool {
	return street != "" && FuzzyMatch(s.streetKey(c.Components.Street()), street)
}

// roadNameMatches compares full street names, road type included.
func roadNameMatches(c Candidate, name string) bool {
	return name != "" && FuzzyMatch(streetName(c.Components.Street()), name)
}
