// Package expander rewrites institution shorthand into full names.
package expander

import (
	"strings"

	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
	"github.com/baditaflorin/go_institution_matcher/internal/core/text"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// Substring expands the first table entry found anywhere in the text.
// Table order decides precedence; it is neither alphabetical nor
// longest-match.
type Substring struct {
	terms []config.Term
}

// NewSubstring creates an expander over an ordered shorthand table.
func NewSubstring(terms []config.Term) *Substring {
	return &Substring{terms: append([]config.Term(nil), terms...)}
}

// Expand replaces the first occurrence of the first matching shorthand and
// returns text unchanged when none is present.
func (s *Substring) Expand(text string) string {
	if text == "" {
		return text
	}
	for _, t := range s.terms {
		if strings.Contains(text, t.From) {
			return strings.Replace(text, t.From, t.To, 1)
		}
	}
	return text
}

// Words expands whole Latin words, e.g. "univ" -> "university".
type Words struct {
	normalizer ports.Normalizer
	words      map[string]string
}

// NewWords creates a word-level expander. Keys are matched after
// normalization.
func NewWords(normalizer ports.Normalizer, words map[string]string) *Words {
	m := make(map[string]string, len(words))
	for k, v := range words {
		m[strings.ToLower(k)] = strings.ToLower(v)
	}
	return &Words{normalizer: normalizer, words: m}
}

// Expand returns the normalized text with every known abbreviation replaced,
// or text itself when nothing was replaced.
func (w *Words) Expand(s string) string {
	tokens := text.Tokens(w.normalizer.Normalize(s))
	changed := false
	for i, tok := range tokens {
		if full, ok := w.words[tok]; ok {
			tokens[i] = full
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(tokens, " ")
}
