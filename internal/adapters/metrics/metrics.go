// Package metrics exposes match outcomes as prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
)

// Recorder owns the matcher collectors.
type Recorder struct {
	MatchesTotal  *prometheus.CounterVec
	MatchDuration prometheus.Histogram
	BatchSize     prometheus.Histogram
	Confidence    prometheus.Histogram
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		MatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "instmatch_matches_total",
			Help: "Total number of resolved queries by level, path and tier",
		}, []string{"level", "path", "tier"}),
		MatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "instmatch_match_duration_ms",
			Help:    "Time to resolve one query in milliseconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "instmatch_batch_size",
			Help:    "Number of queries per batch request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		Confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "instmatch_confidence",
			Help:    "Distribution of final confidences",
			Buckets: []float64{0, 0.6, 0.7, 0.8, 0.9, 0.95, 0.98, 1},
		}),
	}
	for _, c := range []prometheus.Collector{r.MatchesTotal, r.MatchDuration, r.BatchSize, r.Confidence} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe records one resolved query.
func (r *Recorder) Observe(res domain.Annotated, took time.Duration) {
	path := string(res.Path)
	if path == "" {
		path = "none"
	}
	r.MatchesTotal.WithLabelValues(strconv.Itoa(int(res.Level)), path, string(res.Quality.Tier)).Inc()
	r.MatchDuration.Observe(float64(took.Microseconds()) / 1000)
	r.Confidence.Observe(res.Confidence)
}

// ObserveBatch records a batch request and each of its items.
func (r *Recorder) ObserveBatch(items []domain.BatchItem, took time.Duration) {
	r.BatchSize.Observe(float64(len(items)))
	if len(items) == 0 {
		return
	}
	per := took / time.Duration(len(items))
	for _, it := range items {
		r.Observe(it.Annotated, per)
	}
}
