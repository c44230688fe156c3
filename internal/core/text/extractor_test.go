package text

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/normalizer"
	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
)

func keys(s KeywordSet) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}

func chineseExtractor() *Extractor {
	tables := config.DefaultTables()
	return NewExtractor(normalizer.NewInstitutionNormalizer(), ExtractorConfig{
		Regions:          tables.Regions(),
		InstitutionTypes: tables.InstitutionTypes(),
		StopWords:        tables.StopWords(),
	})
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"anhui", "university", "hefei"}, Tokens("anhui university, hefei"))
	assert.Equal(t, []string{"北京", "海淀"}, Tokens("北京，海淀"))
	assert.Empty(t, Tokens(""))
}

func TestKeywords(t *testing.T) {
	e := chineseExtractor()

	t.Run("Regions and types found as substrings", func(t *testing.T) {
		got := e.Keywords("安徽理工大学")
		assert.ElementsMatch(t, []string{"安徽", "大学", "安徽理工大学"}, keys(got))
	})

	t.Run("Tokens that are regions or types are not repeated", func(t *testing.T) {
		got := e.Keywords("安徽 大学")
		assert.ElementsMatch(t, []string{"安徽", "大学"}, keys(got))
	})

	t.Run("Latin tokens are case-insensitive", func(t *testing.T) {
		got := e.Keywords("Anhui UNIVERSITY of Science")
		assert.ElementsMatch(t, []string{"university", "anhui", "of", "science"}, keys(got))
		assert.True(t, got.Has("anhui"))
	})

	t.Run("Single characters are dropped", func(t *testing.T) {
		got := e.Keywords("a b 北")
		assert.Empty(t, got)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, e.Keywords("  "))
	})
}

func TestCoreWords(t *testing.T) {
	e := chineseExtractor()

	assert.Equal(t, []string{"anhui", "university", "science"}, e.CoreWords("Anhui University of the Science"))
	assert.Equal(t, []string{"北京大学"}, e.CoreWords("北京大学 的"))
	assert.Nil(t, e.CoreWords(""))
}

func TestCoreWordsStemmed(t *testing.T) {
	tables := config.DefaultTables()
	e := NewExtractor(normalizer.NewInstitutionNormalizer(), ExtractorConfig{
		InstitutionTypes: tables.EnglishTypes(),
		StopWords:        tables.EnglishStopWords(),
		Stem:             true,
	})

	got := e.CoreWords("Anhui University of Sciences and Technologies")
	assert.Equal(t, []string{"anhui", "scienc", "technolog"}, got)
	assert.Equal(t, e.CoreWords("Science Technology"), e.CoreWords("sciences technologies"))
}
