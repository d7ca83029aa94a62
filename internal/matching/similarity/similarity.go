// Package similarity scores how alike two labels are.
package similarity

import (
	"strings"
	"unicode"
)

// Score returns a similarity in [0,1]. It is a cheap containment and
// shared-character heuristic, not an edit distance, and is asymmetric in the
// overlap case: always call it as Score(needle, haystack).
//
// Comparison ignores case and every rune that is not a letter or digit, so
// "VAV-101" and "vav101" score 1.
func Score(needle, haystack string) float64 {
	if needle == "" || haystack == "" {
		return 0
	}
	if strings.EqualFold(needle, haystack) {
		return 1
	}
	a, b := canonical(needle), canonical(haystack)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if string(a) == string(b) {
		return 1
	}

	shorter, longer := a, b
	if len(b) < len(a) {
		shorter, longer = b, a
	}
	if strings.Contains(string(longer), string(shorter)) {
		return float64(len(shorter)) / float64(len(longer))
	}

	present := make(map[rune]struct{}, len(longer))
	for _, r := range longer {
		present[r] = struct{}{}
	}
	shared := 0
	for _, r := range shorter {
		if _, ok := present[r]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(longer))
}

func canonical(value string) []rune {
	out := make([]rune, 0, len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToLower(r))
		}
	}
	return out
}
