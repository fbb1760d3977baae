package domain

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	postcodePattern      = regexp.MustCompile(`\b\d{5}\b`)
	exactPostcodePattern = regexp.MustCompile(`^\d{5}$`)
)

// ParsedAddress is the structure recovered from a free-text address. Fields
// are only ever copied from the input; missing parts stay empty.
type ParsedAddress struct {
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"` // province or county
	Postcode string `json:"postcode,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Parse splits a comma-separated address into positional fields.
//
// Layouts by segment count:
//
//	3-4 segments: street, city, then province and/or a 5-digit postcode
//	5 segments:   country, street, city, county, postcode
//	              (street, city, province, postcode, country when the first
//	              segment is itself a street)
//	otherwise:    street, city, province
//
// The postcode is the first word-bounded 5-digit token anywhere in the input,
// whichever segment it sits in. A duplicated leading road type in the street
// ("Via Viale Gramsci") is collapsed to the first one.
func (s *Selector) Parse(address string) ParsedAddress {
	segments := splitSegments(address)
	p := ParsedAddress{Postcode: findPostcode(segments)}

	switch n := len(segments); {
	case n == 3 || n == 4:
		p.Street, p.City = segments[0], segments[1]
		p.Province = firstNonPostcode(segments[2:])
	case n == 5 && s.looksLikeStreet(segments[0]):
		p.Street, p.City, p.Country = segments[0], segments[1], segments[4]
		p.Province = firstNonPostcode(segments[2:4])
	case n == 5:
		p.Country, p.Street, p.City = segments[0], segments[1], segments[2]
		p.Province = firstNonPostcode(segments[3:])
	default:
		p.Street = segmentAt(segments, 0)
		p.City = segmentAt(segments, 1)
		p.Province = firstNonPostcode(segments[min(2, n):min(3, n)])
	}

	p.Street = s.collapseRoadTypes(p.Street)
	return p
}

// collapseRoadTypes drops the second of two leading road-type words.
func (s *Selector) collapseRoadTypes(street string) string {
	tokens := strings.Fields(street)
	if len(tokens) < 2 {
		return street
	}
	_, firstIsRoad := s.duplicateRoadTypes[strings.ToLower(tokens[0])]
	_, secondIsRoad := s.duplicateRoadTypes[strings.ToLower(tokens[1])]
	if !firstIsRoad || !secondIsRoad {
		return street
	}
	return strings.Join(append(tokens[:1:1], tokens[2:]...), " ")
}

// looksLikeStreet reports whether a segment starts with a road type or
// carries a house number.
func (s *Selector) looksLikeStreet(segment string) bool {
	if strings.IndexFunc(segment, unicode.IsDigit) >= 0 {
		return true
	}
	return s.StripRoadType(segment) != normalizeName(segment)
}

func splitSegments(address string) []string {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func findPostcode(segments []string) string {
	for _, seg := range segments {
		if m := postcodePattern.FindString(seg); m != "" {
			return m
		}
	}
	return ""
}

func isPostcode(segment string) bool {
	return exactPostcodePattern.MatchString(segment)
}

func firstNonPostcode(segments []string) string {
	for _, seg := range segments {
		if seg != "" && !isPostcode(seg) {
			return seg
		}
	}
	return ""
}

func segmentAt(segments []string, i int) string {
	if i < len(segments) {
		return segments[i]
	}
	return ""
}
