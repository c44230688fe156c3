package batch

import (
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// Summarize counts a batch per status, path and level. SuccessRate is the
// share of auto-approved items.
func Summarize(items []domain.BatchItem) domain.Summary {
	s := domain.Summary{
		Total:    len(items),
		ByStatus: make(map[string]int),
		ByPath:   make(map[domain.Path]int),
		ByLevel:  make(map[domain.Level]int),
	}
	if len(items) == 0 {
		return s
	}

	approved := 0
	sum := 0.0
	for _, it := range items {
		s.ByStatus[it.Quality.Status]++
		s.ByLevel[it.Level]++
		if it.Matched() {
			s.Matched++
			s.ByPath[it.Path]++
		}
		if it.Quality.Tier == domain.TierApproved {
			approved++
		}
		sum += it.Confidence
	}
	s.SuccessRate = float64(approved) / float64(len(items))
	s.MeanConfidence = sum / float64(len(items))
	return s
}

// QueryText extracts the query from a loosely typed batch entry: a string is
// used as is, and a record yields its "name" field or else its first name
// field.
func QueryText(v interface{}, fields ports.NameFieldExtractor) string {
	var rec domain.Record
	switch t := v.(type) {
	case string:
		return t
	case domain.Record:
		rec = t
	case map[string]interface{}:
		rec = domain.Record(t)
	default:
		return ""
	}
	if name, ok := rec["name"].(string); ok && name != "" {
		return name
	}
	if fields != nil {
		if names := fields.NameFields(rec); len(names) > 0 {
			return names[0]
		}
	}
	return ""
}
