// Package separator splits mixed Chinese/English institution names into a
// Chinese-script half and a Latin-script half.
package separator

import (
	"strings"
	"unicode"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/normalizer"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// IsHan reports whether r is a CJK Unified Ideograph (U+4E00–U+9FFF).
func IsHan(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

func isLatin(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '&' || unicode.IsSpace(r)
}

// LanguageSeparator implements ports.Separator.
type LanguageSeparator struct{}

// NewLanguageSeparator creates a new language separator.
func NewLanguageSeparator() ports.Separator {
	return LanguageSeparator{}
}

// Separate concatenates every Han run into the Chinese half and joins every
// run of Latin letters, whitespace and '&' into the English half. Full-width
// letters count as Latin. Either half may be empty.
func (LanguageSeparator) Separate(text string) domain.Halves {
	var chinese strings.Builder
	var english []string
	var run strings.Builder

	flush := func() {
		if run.Len() > 0 {
			english = append(english, run.String())
			run.Reset()
		}
	}

	for _, r := range text {
		r = normalizer.FoldWidth(r)
		switch {
		case IsHan(r):
			flush()
			chinese.WriteRune(r)
		case isLatin(r):
			run.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return domain.Halves{
		Chinese: strings.TrimSpace(chinese.String()),
		English: strings.Join(strings.Fields(strings.Join(english, " ")), " "),
	}
}

// ContainsHan reports whether text has at least one Han character.
func ContainsHan(text string) bool {
	for _, r := range text {
		if IsHan(r) {
			return true
		}
	}
	return false
}
