// Package quality maps a final confidence to an action tier.
package quality

import (
	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
)

// Status and action labels.
const (
	StatusSucceeded = "match succeeded"
	StatusReview    = "needs manual review"
	StatusFailed    = "match failed"

	ActionAutoApprove = "auto-approve"
	ActionConfirm     = "recommend manual confirmation"
	ActionReenter     = "requires re-entry"
)

// Classifier assigns quality tiers. The zero value is not usable; use
// NewClassifier.
type Classifier struct {
	bands config.QualityBands
}

// NewClassifier creates a classifier over validated bands.
func NewClassifier(bands config.QualityBands) (Classifier, error) {
	if err := bands.Validate(); err != nil {
		return Classifier{}, err
	}
	return Classifier{bands: bands}, nil
}

// Classify is a pure function of confidence.
func (c Classifier) Classify(confidence float64) domain.Quality {
	switch {
	case confidence >= c.bands.Approve:
		return domain.Quality{Tier: domain.TierApproved, Status: StatusSucceeded, Action: ActionAutoApprove}
	case confidence >= c.bands.Review:
		return domain.Quality{Tier: domain.TierReview, Status: StatusReview, Action: ActionConfirm}
	default:
		return domain.Quality{Tier: domain.TierFailed, Status: StatusFailed, Action: ActionReenter}
	}
}

// Annotate attaches the quality tier without touching the result.
func (c Classifier) Annotate(r domain.MatchResult) domain.Annotated {
	return domain.Annotated{MatchResult: r, Quality: c.Classify(r.Confidence)}
}
