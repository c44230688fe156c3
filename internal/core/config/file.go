package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type document struct {
	Chinese CascadeConfig `toml:"chinese"`
	English CascadeConfig `toml:"english"`
	Policy  PathPolicy    `toml:"policy"`
	Quality QualityBands  `toml:"quality"`
	Tables  TableSpec     `toml:"tables"`
}

// Parse overlays a TOML document on the defaults. Scalar keys that are absent
// keep their default value; a table that is present replaces the default
// table as a whole.
func Parse(data []byte) (Config, *Tables, error) {
	defaults := DefaultConfig()
	doc := document{
		Chinese: defaults.Chinese,
		English: defaults.English,
		Policy:  defaults.Policy,
		Quality: defaults.Quality,
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Config{}, nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg := Config{
		Chinese: doc.Chinese,
		English: doc.English,
		Policy:  doc.Policy,
		Quality: doc.Quality,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}

	tables, err := NewTables(overlayTables(DefaultTableSpec(), doc.Tables))
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, tables, nil
}

// LoadFile reads and parses a TOML configuration file.
func LoadFile(path string) (Config, *Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, tables, err := Parse(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, tables, nil
}

func overlayTables(base, over TableSpec) TableSpec {
	if over.Abbreviations != nil {
		base.Abbreviations = over.Abbreviations
	}
	if over.EnglishAbbreviations != nil {
		base.EnglishAbbreviations = over.EnglishAbbreviations
	}
	if over.Regions != nil {
		base.Regions = over.Regions
	}
	if over.InstitutionTypes != nil {
		base.InstitutionTypes = over.InstitutionTypes
	}
	if over.StopWords != nil {
		base.StopWords = over.StopWords
	}
	if over.EnglishTypes != nil {
		base.EnglishTypes = over.EnglishTypes
	}
	if over.EnglishStopWords != nil {
		base.EnglishStopWords = over.EnglishStopWords
	}
	if over.Glossary != nil {
		base.Glossary = over.Glossary
	}
	if over.Romanizations != nil {
		base.Romanizations = over.Romanizations
	}
	if over.NameFields != nil {
		base.NameFields = over.NameFields
	}
	return base
}
