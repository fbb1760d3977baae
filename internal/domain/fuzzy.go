package domain

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// maxEditDistance is the largest Levenshtein distance still considered a
// typo between two names with the same number of words.
const maxEditDistance = 2

// FuzzyMatch reports whether two place or street names plausibly refer to the
// same thing. The comparison is case-insensitive and ignores surrounding
// whitespace. Rules are tried in order:
//
//  1. the strings are equal;
//  2. both have the same word count and one contains the other;
//  3. one is a word-boundary prefix of the other and the prefix itself has
//     more than one word ("via roma" matches "via roma nord");
//  4. both have the same word count and are at most two edits apart.
//
// A single word is never matched against a longer name it merely starts, so
// "Monterotondo" does not match "Monterotondo Marittimo".
func FuzzyMatch(a, b string) bool {
	a, b = normalizeName(a), normalizeName(b)
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}

	wa, wb := wordCount(a), wordCount(b)
	if wa == wb && (strings.Contains(a, b) || strings.Contains(b, a)) {
		return true
	}

	if isWordPrefix(a, b) && wa > 1 {
		return true
	}
	if isWordPrefix(b, a) && wb > 1 {
		return true
	}

	return wa == wb && LevenshteinDistance(a, b) <= maxEditDistance
}

// LevenshteinDistance returns the unit-cost edit distance between a and b,
// counted in runes.
func LevenshteinDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// strictCityMatch is FuzzyMatch with one extra rejection: a candidate locality
// that extends the input by further words ("Monterotondo" vs "Monterotondo
// Marittimo") is a different place.
func strictCityMatch(input, candidate string) bool {
	in, cand := normalizeName(input), normalizeName(candidate)
	if wordCount(cand) > wordCount(in) && isWordPrefix(in, cand) {
		return false
	}
	return FuzzyMatch(in, cand)
}

// isWordPrefix reports whether short is a strict word-boundary prefix of long.
func isWordPrefix(short, long string) bool {
	return short != "" && strings.HasPrefix(long, short+" ")
}

// normalizeName lower-cases, NFC-normalizes and collapses internal whitespace.
func normalizeName(s string) string {
	s = norm.NFC.String(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
