// Package text derives keyword sets and core-word lists from institution
// names.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/surgebase/porter2"

	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// KeywordSet is a deduplicated set of lower-case keywords.
type KeywordSet map[string]struct{}

// Has reports whether k is in the set.
func (s KeywordSet) Has(k string) bool {
	_, ok := s[k]
	return ok
}

// ExtractorConfig lists the tables an Extractor works from.
type ExtractorConfig struct {
	Regions          []string
	InstitutionTypes []string
	StopWords        []string
	// Stem enables porter2 stemming of Latin core words.
	Stem bool
}

// Extractor implements keyword and core-word extraction.
type Extractor struct {
	normalizer ports.Normalizer
	regions    []string
	types      []string
	regionSet  map[string]bool
	typeSet    map[string]bool
	stopWords  map[string]bool
	stem       bool
}

// NewExtractor creates an extractor. Table entries are lower-cased.
func NewExtractor(normalizer ports.Normalizer, cfg ExtractorConfig) *Extractor {
	e := &Extractor{
		normalizer: normalizer,
		regionSet:  make(map[string]bool),
		typeSet:    make(map[string]bool),
		stopWords:  make(map[string]bool),
		stem:       cfg.Stem,
	}
	for _, r := range cfg.Regions {
		r = strings.ToLower(r)
		e.regions = append(e.regions, r)
		e.regionSet[r] = true
	}
	for _, t := range cfg.InstitutionTypes {
		t = strings.ToLower(t)
		e.types = append(e.types, t)
		e.typeSet[t] = true
	}
	for _, w := range cfg.StopWords {
		e.stopWords[strings.ToLower(w)] = true
	}
	return e
}

// Tokens splits normalized text on whitespace and commas.
func Tokens(normalized string) []string {
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '，'
	})
}

// Keywords collects region names and institution-type words found anywhere
// in the normalized text, plus every other token of two or more characters.
func (e *Extractor) Keywords(text string) KeywordSet {
	normalized := e.normalizer.Normalize(text)
	set := make(KeywordSet)
	if normalized == "" {
		return set
	}

	for _, region := range e.regions {
		if strings.Contains(normalized, region) {
			set[region] = struct{}{}
		}
	}
	for _, t := range e.types {
		if strings.Contains(normalized, t) {
			set[t] = struct{}{}
		}
	}
	for _, tok := range Tokens(normalized) {
		tok = strings.ToLower(tok)
		if utf8.RuneCountInString(tok) < 2 || e.typeSet[tok] || e.regionSet[tok] {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// CoreWords returns the normalized tokens of two or more characters that are
// not stop words, in order.
func (e *Extractor) CoreWords(text string) []string {
	normalized := e.normalizer.Normalize(text)
	var out []string
	for _, tok := range Tokens(normalized) {
		tok = strings.ToLower(tok)
		if utf8.RuneCountInString(tok) < 2 || e.stopWords[tok] {
			continue
		}
		if e.stem {
			tok = stem(tok)
		}
		out = append(out, tok)
	}
	return out
}

// stem applies porter2 to ASCII words of three or more letters.
func stem(word string) string {
	if len(word) < 3 {
		return word
	}
	for i := 0; i < len(word); i++ {
		if word[i] >= utf8.RuneSelf {
			return word
		}
	}
	return porter2.Stem(word)
}
