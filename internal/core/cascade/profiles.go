package cascade

import (
	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/core/expander"
	"github.com/baditaflorin/go_institution_matcher/internal/core/text"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// ChineseProfile is the primary cascade: region and type keywords, the
// shorthand table and the mixed-language stop words.
func ChineseProfile(cfg config.CascadeConfig, tables *config.Tables, n ports.Normalizer, fields ports.NameFieldExtractor) Profile {
	return Profile{
		Path:       domain.PathChinese,
		Config:     cfg,
		Normalizer: n,
		Extractor: text.NewExtractor(n, text.ExtractorConfig{
			Regions:          tables.Regions(),
			InstitutionTypes: tables.InstitutionTypes(),
			StopWords:        tables.StopWords(),
		}),
		Expander: expander.NewSubstring(tables.Abbreviations()),
		Fields:   fields,
	}
}

// EnglishProfile mirrors the primary cascade for Latin-script names. Level 5
// expands word abbreviations such as "univ", and core words are porter2
// stems with institution-type words dropped.
func EnglishProfile(cfg config.CascadeConfig, tables *config.Tables, n ports.Normalizer, fields ports.NameFieldExtractor) Profile {
	return Profile{
		Path:       domain.PathEnglish,
		Config:     cfg,
		Normalizer: n,
		Extractor: text.NewExtractor(n, text.ExtractorConfig{
			InstitutionTypes: tables.EnglishTypes(),
			StopWords:        tables.EnglishStopWords(),
			Stem:             true,
		}),
		Expander: expander.NewWords(n, tables.EnglishAbbreviations()),
		Fields:   fields,
	}
}
