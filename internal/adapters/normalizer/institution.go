package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/baditaflorin/go_institution_matcher/internal/pool"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

const (
	fullWidthFirst  = 0xFF01
	fullWidthLast   = 0xFF5E
	fullWidthOffset = 0xFEE0
)

// strippedPunct is removed outright, not replaced by a space.
var strippedPunct = map[rune]bool{}

func init() {
	for _, r := range ".,;:!?'\"()[]{}—–-" + "，。；：！？“”‘’（）【】｛｝、《》〈〉「」『』·" {
		strippedPunct[r] = true
	}
}

// FoldWidth maps a full-width Latin letter, digit or punctuation rune to its
// half-width form and leaves every other rune unchanged.
func FoldWidth(r rune) rune {
	if r >= fullWidthFirst && r <= fullWidthLast {
		return r - fullWidthOffset
	}
	return r
}

// InstitutionNormalizer canonicalizes institution names: full-width forms
// are folded to half-width, a fixed punctuation set is dropped, the text is
// lower-cased and whitespace runs collapse to single spaces.
//
// Width folding runs first so that folded punctuation and upper-case letters
// are handled in the same pass, which keeps Normalize idempotent.
type InstitutionNormalizer struct {
	transformers *pool.TransformerPool
}

// NewInstitutionNormalizer creates a new institution-name normalizer.
func NewInstitutionNormalizer() ports.Normalizer {
	return &InstitutionNormalizer{
		transformers: pool.NewTransformerPool(func() transform.Transformer {
			return transform.Chain(
				runes.Map(FoldWidth),
				runes.Remove(runes.Predicate(func(r rune) bool { return strippedPunct[r] })),
			)
		}),
	}
}

// Normalize returns the canonical form of text. It never fails.
func (n *InstitutionNormalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	folded := strings.ToLower(n.transformers.String(text))
	return strings.Join(strings.FieldsFunc(folded, unicode.IsSpace), " ")
}
