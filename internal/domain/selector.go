package domain

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// PrimaryConfidenceThreshold is the minimum provider confidence for a
	// domestic candidate to take part in fallback scoring.
	PrimaryConfidenceThreshold = 9

	// LastResortConfidenceThreshold is the minimum confidence for the
	// candidate returned when scoring found nothing and produced no
	// diagnostic.
	LastResortConfidenceThreshold = 8
)

// Selector parses addresses and picks the geocoding candidate that best fits
// them. It holds a private copy of its Locale and is safe for concurrent use.
type Selector struct {
	locale             Locale
	roadTypes          []string // longest first
	duplicateRoadTypes map[string]struct{}
	mismatches         map[string][]string
	aliases            map[string][]string
	keywords           []string
}

// NewSelector builds a selector for the given locale.
func NewSelector(locale Locale) *Selector {
	locale = locale.Clone()
	locale.DomesticCountryCode = strings.ToLower(strings.TrimSpace(locale.DomesticCountryCode))
	s := &Selector{
		locale:             locale,
		duplicateRoadTypes: make(map[string]struct{}, len(locale.DuplicateRoadTypes)),
		mismatches:         normalizeTable(locale.CityProvinceMismatches),
		aliases:            normalizeTable(locale.ProvinceAliases),
	}

	for _, rt := range locale.RoadTypes {
		if rt = normalizeName(rt); rt != "" {
			s.roadTypes = append(s.roadTypes, rt)
		}
	}
	sort.SliceStable(s.roadTypes, func(i, j int) bool {
		return len(s.roadTypes[i]) > len(s.roadTypes[j])
	})

	for _, rt := range locale.DuplicateRoadTypes {
		s.duplicateRoadTypes[normalizeName(rt)] = struct{}{}
	}
	for _, kw := range locale.Keywords {
		if kw = foldKeyword(kw); kw != "" {
			s.keywords = append(s.keywords, kw)
		}
	}
	return s
}

// Locale returns a copy of the selector's locale.
func (s *Selector) Locale() Locale {
	return s.locale.Clone()
}

// SelectBest picks the candidate that best matches address, or explains why
// none does with a *ValidationError or *NoResultsError.
//
// Only street-level candidates (with a road or square) are ever returned.
// When the address carries a postcode, the postcode decides; otherwise a
// street must match both road and locality. Candidates that survive none of
// these rules are scored as a last resort.
func (s *Selector) SelectBest(candidates []Candidate, address string) (Candidate, error) {
	parsed := s.Parse(address)

	filtered := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Components.HasStreet() {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return s.scoreCandidates(candidates, parsed, address)
	}

	switch {
	case parsed.Postcode != "":
		return s.selectByPostcode(filtered, parsed)
	case parsed.Street != "":
		return s.selectByStreet(filtered, parsed)
	default:
		return filtered[0], nil
	}
}

func (s *Selector) selectByPostcode(filtered []Candidate, p ParsedAddress) (Candidate, error) {
	if name := streetName(p.Street); name != "" {
		for _, c := range filtered {
			if c.Components.Postcode == p.Postcode && roadNameMatches(c, name) {
				return c, nil
			}
		}
	}
	for _, c := range filtered {
		if c.Components.Postcode == p.Postcode {
			return c, nil
		}
	}
	return Candidate{}, newValidationError(
		fmt.Sprintf("no address found with postcode %s; check the postcode or remove it", p.Postcode), "")
}

func (s *Selector) selectByStreet(filtered []Candidate, p ParsedAddress) (Candidate, error) {
	street := s.streetKey(p.Street)

	if p.City == "" {
		for _, c := range filtered {
			if s.roadMatches(c, street) {
				return c, nil
			}
		}
		return Candidate{}, newValidationError(fmt.Sprintf("no result matches the street %q", p.Street), "")
	}

	conflict := -1
	for i, c := range filtered {
		if !s.roadMatches(c, street) || !localityMatches(p.City, c.Components, strictCityMatch) {
			continue
		}
		if p.Province != "" && hasProvince(c.Components) && !s.provinceMatches(p.Province, c.Components) {
			if conflict < 0 {
				conflict = i
			}
			continue
		}
		return c, nil
	}
	if conflict >= 0 {
		return Candidate{}, newValidationError(s.provinceDiagnostic(p, filtered[conflict].Components), "")
	}

	return Candidate{}, s.streetNotFound(filtered, p, street)
}

// streetNotFound builds the error for a street that exists nowhere in the
// requested locality, suggesting the locality where the provider did find it.
func (s *Selector) streetNotFound(filtered []Candidate, p ParsedAddress, street string) *ValidationError {
	var b strings.Builder
	fmt.Fprintf(&b, "no result matches %q in %s", p.Street, p.City)

	var suggestion string
	for _, c := range filtered {
		if !s.roadMatches(c, street) {
			continue
		}
		loc := c.Components.Locality()
		if loc == "" || localityMatches(p.City, c.Components, strictCityMatch) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(loc), strings.TrimSpace(p.City)) {
			suggestion = loc
		}
		break
	}
	if suggestion != "" {
		fmt.Fprintf(&b, "; did you mean %s?", suggestion)
	}
	if p.Postcode == "" {
		b.WriteString(" Adding a postcode may help narrow the search.")
	}
	return newValidationError(b.String(), suggestion)
}

type scoredCandidate struct {
	candidate Candidate
	score     int
}

// scoreCandidates ranks every candidate by provider confidence plus one point
// per address field that agrees with the input. Domestic candidates must match
// the city and are dropped, with a diagnostic, when province or postcode
// disagree. Foreign candidates are dropped on any disagreeing field.
//
// SelectBest only reaches this when no candidate is street-level, so from
// there the ranking never picks a winner and the outcome is either a
// diagnostic or NO_RESULTS.
func (s *Selector) scoreCandidates(candidates []Candidate, p ParsedAddress, address string) (Candidate, error) {
	var best *scoredCandidate
	var diagnostics []string

	for _, c := range candidates {
		var (
			bonus      int
			ok         bool
			diagnostic string
		)
		if s.isDomestic(c) {
			if c.Confidence < PrimaryConfidenceThreshold {
				continue
			}
			bonus, diagnostic, ok = s.scoreDomestic(c, p)
		} else {
			bonus, ok = scoreForeign(c, p)
		}
		if diagnostic != "" {
			diagnostics = append(diagnostics, diagnostic)
		}
		if !ok || !c.Components.HasStreet() {
			continue
		}
		if score := c.Confidence + bonus; best == nil || score > best.score {
			best = &scoredCandidate{candidate: c, score: score}
		}
	}

	if best != nil {
		return best.candidate, nil
	}
	if len(diagnostics) > 0 {
		return Candidate{}, newValidationError(diagnostics[0], "")
	}
	for _, c := range candidates {
		if c.Components.HasStreet() && c.Confidence >= LastResortConfidenceThreshold {
			return c, nil
		}
	}
	return Candidate{}, &NoResultsError{Query: address}
}

func (s *Selector) scoreDomestic(c Candidate, p ParsedAddress) (int, string, bool) {
	if p.City == "" || !localityMatches(p.City, c.Components, FuzzyMatch) {
		return 0, "", false
	}

	bonus := 0
	if p.Province != "" && hasProvince(c.Components) {
		if !s.provinceMatches(p.Province, c.Components) {
			return 0, s.provinceDiagnostic(p, c.Components), false
		}
		bonus++
	}
	if p.Postcode != "" && c.Components.Postcode != "" {
		if c.Components.Postcode != p.Postcode {
			return 0, fmt.Sprintf("postcode mismatch: expected %s, found %s", p.Postcode, c.Components.Postcode), false
		}
		bonus++
	}
	return bonus, "", true
}

func scoreForeign(c Candidate, p ParsedAddress) (int, bool) {
	bonus := 0
	if p.City != "" && c.Components.Locality() != "" {
		if !localityMatches(p.City, c.Components, FuzzyMatch) {
			return 0, false
		}
		bonus++
	}
	if p.Postcode != "" && c.Components.Postcode != "" {
		if !FuzzyMatch(p.Postcode, c.Components.Postcode) {
			return 0, false
		}
		bonus++
	}
	if p.Province != "" && c.Components.County != "" {
		if !FuzzyMatch(p.Province, c.Components.County) {
			return 0, false
		}
		bonus++
	}
	return bonus, true
}

func (s *Selector) isDomestic(c Candidate) bool {
	cc := strings.ToLower(strings.TrimSpace(c.Components.CountryCode))
	return cc == "" || cc == s.locale.DomesticCountryCode
}

// localityMatches applies match to every populated locality field.
func localityMatches(city string, c Components, match func(a, b string) bool) bool {
	for _, loc := range c.localities() {
		if loc != "" && match(city, loc) {
			return true
		}
	}
	return false
}

func normalizeTable(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, vs := range in {
		key := normalizeName(k)
		for _, v := range vs {
			if v = normalizeName(v); v != "" {
				out[key] = append(out[key], v)
			}
		}
	}
	return out
}
