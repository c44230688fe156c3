// Package cascade implements the five-level matching cascade: exact,
// normalized, keyword, fuzzy and semantic. Levels run strictly in order and
// the first level that selects a record wins, whatever later levels would
// have scored.
package cascade

import (
	"errors"
	"strings"

	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/core/similarity"
	"github.com/baditaflorin/go_institution_matcher/internal/core/text"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// Profile bundles the components one cascade runs with.
type Profile struct {
	Path       domain.Path
	Config     config.CascadeConfig
	Normalizer ports.Normalizer
	Extractor  *text.Extractor
	Expander   ports.Expander
	Fields     ports.NameFieldExtractor
}

// Validate checks that the profile is complete and its thresholds valid.
func (p Profile) Validate() error {
	if p.Normalizer == nil || p.Extractor == nil || p.Expander == nil || p.Fields == nil {
		return errors.New("cascade profile is missing a component")
	}
	return p.Config.Validate()
}

// Matcher runs the cascade for one profile. It is safe for concurrent use.
type Matcher struct {
	profile Profile
	logger  ports.Logger
}

// NewMatcher creates a cascade matcher.
func NewMatcher(profile Profile, logger ports.Logger) (*Matcher, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{profile: profile, logger: logger}, nil
}

// Match resolves query against records. An empty query or collection
// returns the level-0 result without running any level.
func (m *Matcher) Match(query string, records []domain.Record) domain.MatchResult {
	if strings.TrimSpace(query) == "" || len(records) == 0 {
		m.logger.Debug("Skipping cascade on empty input",
			"path", m.profile.Path,
			"records", len(records),
		)
		return domain.NoMatch()
	}

	s := m.newScan(records)
	stages := []struct {
		level domain.Level
		run   func(string) hit
	}{
		{domain.LevelExact, s.exact},
		{domain.LevelNormalized, s.normalized},
		{domain.LevelKeyword, s.keyword},
		{domain.LevelFuzzy, s.fuzzy},
		{domain.LevelSemantic, s.semantic},
	}

	for _, st := range stages {
		h := st.run(query)
		m.logger.Debug("Cascade level evaluated",
			"path", m.profile.Path,
			"level", int(st.level),
			"matched", h.ok(),
			"confidence", h.confidence,
		)
		if h.ok() {
			return domain.MatchResult{
				Record:     records[h.record],
				Index:      h.record,
				Confidence: h.confidence,
				Level:      st.level,
				Reason:     st.level.Reason(),
			}
		}
	}
	return domain.NoMatch()
}

// MatchExact runs the verbatim level alone on the untouched query.
func (m *Matcher) MatchExact(query string, records []domain.Record) domain.MatchResult {
	if strings.TrimSpace(query) == "" || len(records) == 0 {
		return domain.NoMatch()
	}
	if h := m.newScan(records).exact(query); h.ok() {
		return domain.MatchResult{
			Record:     records[h.record],
			Index:      h.record,
			Confidence: h.confidence,
			Level:      domain.LevelExact,
			Reason:     domain.LevelExact.Reason(),
		}
	}
	return domain.NoMatch()
}

type hit struct {
	record     int
	confidence float64
}

var miss = hit{record: -1}

func (h hit) ok() bool { return h.record >= 0 }

type candidate struct {
	record     int
	name       string
	normalized string
	normDone   bool
}

// scan holds the per-call candidate list; nothing survives the call.
type scan struct {
	p     *Profile
	cands []candidate
}

func (m *Matcher) newScan(records []domain.Record) *scan {
	s := &scan{p: &m.profile}
	for i, rec := range records {
		for _, name := range m.profile.Fields.NameFields(rec) {
			s.cands = append(s.cands, candidate{record: i, name: name})
		}
	}
	return s
}

func (s *scan) norm(c *candidate) string {
	if !c.normDone {
		c.normalized = s.p.Normalizer.Normalize(c.name)
		c.normDone = true
	}
	return c.normalized
}

// best returns the first candidate reaching the highest score at or above
// threshold. Later candidates with an equal score never replace it.
func (s *scan) best(threshold float64, score func(c *candidate) float64) hit {
	best := miss
	for i := range s.cands {
		c := &s.cands[i]
		if sc := score(c); sc > best.confidence && sc >= threshold {
			best = hit{record: c.record, confidence: sc}
		}
	}
	return best
}

func (s *scan) exact(query string) hit {
	q := strings.TrimSpace(query)
	for i := range s.cands {
		if strings.TrimSpace(s.cands[i].name) == q {
			return hit{record: s.cands[i].record, confidence: s.p.Config.ExactConfidence}
		}
	}
	return miss
}

func (s *scan) normalized(query string) hit {
	nq := s.p.Normalizer.Normalize(query)
	if nq == "" {
		return miss
	}
	for i := range s.cands {
		if s.norm(&s.cands[i]) == nq {
			return hit{record: s.cands[i].record, confidence: s.p.Config.NormalizedConfidence}
		}
	}
	return miss
}

func (s *scan) keyword(query string) hit {
	qk := s.p.Extractor.Keywords(query)
	if len(qk) == 0 {
		return miss
	}
	return s.best(s.p.Config.KeywordThreshold, func(c *candidate) float64 {
		return similarity.Jaccard(qk, s.p.Extractor.Keywords(c.name))
	})
}

func (s *scan) fuzzy(query string) hit {
	nq := s.p.Normalizer.Normalize(query)
	if nq == "" {
		return miss
	}
	return s.best(s.p.Config.FuzzyThreshold, func(c *candidate) float64 {
		nf := s.norm(c)
		if nf == "" {
			return 0
		}
		return max(similarity.Edit(nq, nf), similarity.Containment(nq, nf))
	})
}

// semantic first retries the normalized level on the expanded query, then
// falls back to core-word overlap.
func (s *scan) semantic(query string) hit {
	if expanded := s.p.Expander.Expand(query); expanded != query {
		if h := s.normalized(expanded); h.ok() {
			return h
		}
	}
	qc := s.p.Extractor.CoreWords(query)
	if len(qc) == 0 {
		return miss
	}
	return s.best(s.p.Config.SemanticThreshold, func(c *candidate) float64 {
		return similarity.CoreWords(qc, s.p.Extractor.CoreWords(c.name))
	})
}
