// Package fields discovers the name-bearing values of reference records.
package fields

import (
	"sort"
	"strings"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/separator"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// AliasExtractor probes a prioritized list of field-name aliases. When none
// of them holds a non-empty string it falls back to the first non-empty
// string field, taking keys in lexical order so the choice is stable.
type AliasExtractor struct {
	aliases []string
}

// NewAliasExtractor creates an extractor over the given aliases.
func NewAliasExtractor(aliases []string) *AliasExtractor {
	return &AliasExtractor{aliases: append([]string(nil), aliases...)}
}

// NameFields returns the record's name values in alias order.
func (e *AliasExtractor) NameFields(record domain.Record) []string {
	if len(record) == 0 {
		return nil
	}

	var out []string
	for _, alias := range e.aliases {
		if s, ok := stringValue(record, alias); ok {
			out = append(out, s)
		}
	}
	if len(out) > 0 {
		return out
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := stringValue(record, k); ok && strings.TrimSpace(s) != "" {
			return []string{s}
		}
	}
	return nil
}

func stringValue(record domain.Record, key string) (string, bool) {
	s, ok := record[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// romanizing appends Latin renderings of Chinese names to the wrapped
// extractor's output.
type romanizing struct {
	base      ports.NameFieldExtractor
	romanizer ports.Romanizer
}

// WithRomanized wraps base so that every Chinese-script name is followed by
// its romanized form.
func WithRomanized(base ports.NameFieldExtractor, r ports.Romanizer) ports.NameFieldExtractor {
	return &romanizing{base: base, romanizer: r}
}

func (x *romanizing) NameFields(record domain.Record) []string {
	names := x.base.NameFields(record)
	out := append([]string(nil), names...)
	for _, name := range names {
		if !separator.ContainsHan(name) {
			continue
		}
		if roman := x.romanizer.Romanize(name); roman != "" && roman != name {
			out = append(out, roman)
		}
	}
	return out
}
