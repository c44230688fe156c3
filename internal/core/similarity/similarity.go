// Package similarity provides the string and token-set scores used by the
// matching cascade. All lengths are counted in runes.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Levenshtein returns the edit distance between a and b with unit costs for
// insertion, deletion and substitution.
func Levenshtein(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// Edit returns 1 - levenshtein(a,b)/max(len(a),len(b)). Identical strings
// score 1, and an empty side scores 0.
func Edit(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	return 1 - float64(Levenshtein(a, b))/float64(max(la, lb))
}

// Containment scores len(shorter)/len(longer) when the longer string
// contains the shorter one, and 0 otherwise.
func Containment(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	shorter, longer := a, b
	ls, ll := la, lb
	if la > lb {
		shorter, longer = b, a
		ls, ll = lb, la
	}
	if ll == 0 || !strings.Contains(longer, shorter) {
		return 0
	}
	return float64(ls) / float64(ll)
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

// CoreWords credits each query word at most once when it equals, contains or
// is contained by some candidate word, and divides the credits by the longer
// of the two word lists.
func CoreWords(query, candidate []string) float64 {
	if len(query) == 0 || len(candidate) == 0 {
		return 0
	}
	matches := 0
	for _, q := range query {
		for _, c := range candidate {
			if q == c || strings.Contains(q, c) || strings.Contains(c, q) {
				matches++
				break
			}
		}
	}
	return float64(matches) / float64(max(len(query), len(candidate)))
}
