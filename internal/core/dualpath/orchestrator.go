// Package dualpath runs the cascade separately on the Chinese and English
// halves of a query and selects one of the two results.
package dualpath

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// Orchestrator implements ports.Matcher over two language paths.
type Orchestrator struct {
	separator ports.Separator
	chinese   ports.Matcher
	english   ports.Matcher
	policy    config.PathPolicy
	logger    ports.Logger
}

// NewOrchestrator creates an orchestrator. english may be nil, in which
// case only the Chinese path runs.
func NewOrchestrator(sep ports.Separator, chinese, english ports.Matcher, policy config.PathPolicy, logger ports.Logger) (*Orchestrator, error) {
	if sep == nil || chinese == nil {
		return nil, errors.New("orchestrator needs a separator and a chinese matcher")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{
		separator: sep,
		chinese:   chinese,
		english:   english,
		policy:    policy,
		logger:    logger,
	}, nil
}

// Match separates query, runs each path whose half is long enough and
// selects a result according to the policy. The selected result carries the
// path that produced it.
//
// A mixed-script query equal to a stored name is answered at level 1 by the
// Chinese matcher before separation, when that matcher implements
// ports.ExactMatcher; separating it would otherwise hide the verbatim match.
func (o *Orchestrator) Match(query string, records []domain.Record) domain.MatchResult {
	if strings.TrimSpace(query) == "" || len(records) == 0 {
		return domain.NoMatch()
	}

	halves := o.separator.Separate(query)
	o.logger.Debug("Separated query",
		"query", query,
		"chinese", halves.Chinese,
		"english", halves.English,
	)

	if halves.Chinese != "" && halves.English != "" {
		if exact, ok := o.chinese.(ports.ExactMatcher); ok {
			if r := exact.MatchExact(query, records); r.Matched() {
				o.logger.Debug("Verbatim match before separation", "query", query, "index", r.Index)
				r.Path = domain.PathChinese
				return r
			}
		}
	}

	var cn, en *domain.MatchResult
	if utf8.RuneCountInString(halves.Chinese) >= o.policy.ChineseMinRunes {
		r := o.chinese.Match(halves.Chinese, records)
		cn = &r
	}
	if o.english != nil && utf8.RuneCountInString(halves.English) >= o.policy.EnglishMinRunes {
		r := o.english.Match(halves.English, records)
		en = &r
	}

	selected, path := o.selectResult(cn, en)
	o.logger.Debug("Selected path",
		"query", query,
		"path", path,
		"confidence", selected.Confidence,
	)
	if !selected.Matched() {
		return domain.NoMatch()
	}
	selected.Path = path
	return selected
}

func (o *Orchestrator) selectResult(cn, en *domain.MatchResult) (domain.MatchResult, domain.Path) {
	if cn != nil && cn.Confidence >= o.policy.NearExact {
		return *cn, domain.PathChinese
	}

	cnHit := cn != nil && cn.Matched()
	enHit := en != nil && en.Matched()

	if o.policy.Selection == config.SelectHighestConfidence && cnHit && enHit {
		if en.Confidence > cn.Confidence {
			return *en, domain.PathEnglish
		}
		return *cn, domain.PathChinese
	}

	switch {
	case cnHit:
		return *cn, domain.PathChinese
	case enHit:
		return *en, domain.PathEnglish
	default:
		return domain.NoMatch(), domain.PathNone
	}
}
