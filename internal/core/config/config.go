// Package config holds the thresholds, path policy, quality bands and static
// lookup tables that drive the matcher. Values are validated once at
// construction and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidThreshold = errors.New("threshold must be in (0, 1]")
	ErrInvalidPolicy    = errors.New("invalid path policy")
	ErrInvalidQuality   = errors.New("invalid quality bands")
	ErrEmptyTable       = errors.New("lookup table must not be empty")
)

// CascadeConfig holds the per-level confidences and acceptance thresholds of
// one cascade.
type CascadeConfig struct {
	// ExactConfidence is reported for a verbatim match.
	ExactConfidence float64 `toml:"exact_confidence"`
	// NormalizedConfidence is reported for a match after normalization,
	// including the abbreviation re-attempt.
	NormalizedConfidence float64 `toml:"normalized_confidence"`
	KeywordThreshold     float64 `toml:"keyword_threshold"`
	FuzzyThreshold       float64 `toml:"fuzzy_threshold"`
	SemanticThreshold    float64 `toml:"semantic_threshold"`
}

// DefaultCascadeConfig returns the stock cascade thresholds.
func DefaultCascadeConfig() CascadeConfig {
	return CascadeConfig{
		ExactConfidence:      1.0,
		NormalizedConfidence: 0.95,
		KeywordThreshold:     0.8,
		FuzzyThreshold:       0.7,
		SemanticThreshold:    0.6,
	}
}

// Validate checks if the configuration is valid.
func (c CascadeConfig) Validate() error {
	for name, v := range map[string]float64{
		"exact_confidence":      c.ExactConfidence,
		"normalized_confidence": c.NormalizedConfidence,
		"keyword_threshold":     c.KeywordThreshold,
		"fuzzy_threshold":       c.FuzzyThreshold,
		"semantic_threshold":    c.SemanticThreshold,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s=%v: %w", name, v, ErrInvalidThreshold)
		}
	}
	return nil
}

// Selection names the rule used to pick between the two path results.
type Selection string

const (
	// SelectChineseFirst prefers any Chinese-path match over the English path.
	SelectChineseFirst Selection = "chinese-first"
	// SelectHighestConfidence takes the more confident path; ties go to Chinese.
	SelectHighestConfidence Selection = "highest-confidence"
)

// PathPolicy configures the dual-path orchestrator.
type PathPolicy struct {
	// ChineseMinRunes is the minimum length of the Chinese half to run its path.
	ChineseMinRunes int `toml:"chinese_min_runes"`
	// EnglishMinRunes is the minimum length of the Latin half to run its path.
	EnglishMinRunes int `toml:"english_min_runes"`
	// NearExact is the Chinese confidence at or above which it wins outright.
	NearExact float64   `toml:"near_exact"`
	Selection Selection `toml:"selection"`
	// Romanize offers pinyin renderings of Chinese names to the English path.
	Romanize bool `toml:"romanize"`
}

// DefaultPathPolicy returns the stock orchestrator policy.
func DefaultPathPolicy() PathPolicy {
	return PathPolicy{
		ChineseMinRunes: 2,
		EnglishMinRunes: 3,
		NearExact:       0.98,
		Selection:       SelectChineseFirst,
		Romanize:        true,
	}
}

// Validate checks if the policy is valid.
func (p PathPolicy) Validate() error {
	if p.ChineseMinRunes < 1 || p.EnglishMinRunes < 1 {
		return fmt.Errorf("minimum half lengths must be positive: %w", ErrInvalidPolicy)
	}
	if p.NearExact <= 0 || p.NearExact > 1 {
		return fmt.Errorf("near_exact=%v: %w", p.NearExact, ErrInvalidPolicy)
	}
	switch p.Selection {
	case SelectChineseFirst, SelectHighestConfidence:
	default:
		return fmt.Errorf("unknown selection %q: %w", p.Selection, ErrInvalidPolicy)
	}
	return nil
}

// QualityBands are the lower confidence bounds of the quality tiers.
type QualityBands struct {
	Approve float64 `toml:"approve"`
	Review  float64 `toml:"review"`
}

// DefaultQualityBands returns the stock tier bounds.
func DefaultQualityBands() QualityBands {
	return QualityBands{Approve: 0.9, Review: 0.7}
}

// Validate checks if the bands are ordered and within range.
func (q QualityBands) Validate() error {
	if q.Review <= 0 || q.Review > q.Approve || q.Approve > 1 {
		return fmt.Errorf("approve=%v review=%v: %w", q.Approve, q.Review, ErrInvalidQuality)
	}
	return nil
}

// Config is the complete matcher configuration.
type Config struct {
	Chinese CascadeConfig `toml:"chinese"`
	English CascadeConfig `toml:"english"`
	Policy  PathPolicy    `toml:"policy"`
	Quality QualityBands  `toml:"quality"`
}

// DefaultConfig returns a default configuration. The English cascade uses
// the same thresholds as the Chinese one.
func DefaultConfig() Config {
	return Config{
		Chinese: DefaultCascadeConfig(),
		English: DefaultCascadeConfig(),
		Policy:  DefaultPathPolicy(),
		Quality: DefaultQualityBands(),
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Chinese.Validate(); err != nil {
		return fmt.Errorf("chinese cascade: %w", err)
	}
	if err := c.English.Validate(); err != nil {
		return fmt.Errorf("english cascade: %w", err)
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	return c.Quality.Validate()
}
