// Package matcher reconciles free-form institution names against a
// reference collection. Each query runs through a five-level cascade
// (exact, normalized, keyword, fuzzy, semantic) once per language half, one
// path result is selected, and a quality tier is attached.
//
//	m, err := matcher.New(matcher.WithSilentLogging())
//	res := m.Match("安徽理工大学Anhui University of Science", records)
//	fmt.Println(res.Confidence, res.Path, res.Quality.Action)
package matcher

import (
	"context"
	"io"
	"sync"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/batch"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/fields"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/logger"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/normalizer"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/romanizer"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/separator"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/stream"
	"github.com/baditaflorin/go_institution_matcher/internal/core/cascade"
	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/core/dualpath"
	"github.com/baditaflorin/go_institution_matcher/internal/core/expander"
	"github.com/baditaflorin/go_institution_matcher/internal/core/quality"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
	"github.com/baditaflorin/go_institution_matcher/internal/warmup"
)

type (
	Record       = domain.Record
	Result       = domain.MatchResult
	Annotated    = domain.Annotated
	BatchItem    = domain.BatchItem
	Summary      = domain.Summary
	Halves       = domain.Halves
	Quality      = domain.Quality
	ProgressFunc = ports.ProgressFunc
	FieldSource  = ports.NameFieldExtractor
	WarmupConfig = warmup.WarmupConfig
	StreamStats  = stream.Stats
	StreamConfig = stream.ProcessingConfig
)

// Matcher is safe for concurrent use once constructed.
type Matcher struct {
	config       config.Config
	tables       *config.Tables
	logger       ports.Logger
	normalizer   ports.Normalizer
	separator    ports.Separator
	expander     ports.Expander
	fields       ports.NameFieldExtractor
	chinese      *cascade.Matcher
	english      *cascade.Matcher
	orchestrator *dualpath.Orchestrator
	classifier   quality.Classifier
	batch        *batch.Driver
	stream       *stream.Processor
	warmOnce     sync.Once
}

// New creates a Matcher. If no logger is provided, a default logger is
// created.
func New(opts ...Option) (*Matcher, error) {
	o := &options{
		Config:       config.DefaultConfig(),
		Batch:        batch.Options{Memoize: true},
		WarmUpConfig: warmup.DefaultWarmupConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := o.Config.Validate(); err != nil {
		return nil, err
	}

	if o.Logger == nil {
		var err error
		o.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}
	if o.Tables == nil {
		o.Tables = config.DefaultTables()
	}
	if o.Normalizer == nil {
		o.Normalizer = normalizer.NewInstitutionNormalizer()
	}
	if o.Fields == nil {
		o.Fields = fields.NewAliasExtractor(o.Tables.NameFields())
	}

	chinese, err := cascade.NewMatcher(
		cascade.ChineseProfile(o.Config.Chinese, o.Tables, o.Normalizer, o.Fields), o.Logger)
	if err != nil {
		return nil, err
	}

	englishFields := o.Fields
	if o.Config.Policy.Romanize {
		if o.Romanizer == nil {
			o.Romanizer = romanizer.NewPinyinRomanizer(o.Tables)
		}
		englishFields = fields.WithRomanized(o.Fields, o.Romanizer)
	}
	english, err := cascade.NewMatcher(
		cascade.EnglishProfile(o.Config.English, o.Tables, o.Normalizer, englishFields), o.Logger)
	if err != nil {
		return nil, err
	}

	sep := separator.NewLanguageSeparator()
	orchestrator, err := dualpath.NewOrchestrator(sep, chinese, english, o.Config.Policy, o.Logger)
	if err != nil {
		return nil, err
	}
	classifier, err := quality.NewClassifier(o.Config.Quality)
	if err != nil {
		return nil, err
	}

	m := &Matcher{
		config:       o.Config,
		tables:       o.Tables,
		logger:       o.Logger,
		normalizer:   o.Normalizer,
		separator:    sep,
		expander:     expander.NewSubstring(o.Tables.Abbreviations()),
		fields:       o.Fields,
		chinese:      chinese,
		english:      english,
		orchestrator: orchestrator,
		classifier:   classifier,
	}
	m.batch = batch.NewDriver(m, o.Logger, o.Batch)
	m.stream = stream.NewProcessor(m.batch, o.Logger, o.Stream)

	if o.WarmUp {
		m.WarmUp(context.Background(), o.WarmUpConfig)
	}
	return m, nil
}

// Match resolves query through both language paths and annotates the
// selected result with its quality tier. A mixed-script query that equals a
// stored name verbatim is reported at level 1 without separation.
func (m *Matcher) Match(query string, records []Record) Annotated {
	return m.classifier.Annotate(m.orchestrator.Match(query, records))
}

// Resolve implements ports.Resolver.
func (m *Matcher) Resolve(query string, records []Record) Annotated {
	return m.Match(query, records)
}

// MatchCascade runs the primary cascade on the raw query, without language
// separation or quality annotation.
func (m *Matcher) MatchCascade(query string, records []Record) Result {
	return m.chinese.Match(query, records)
}

// MatchEnglish runs the English cascade on the raw query.
func (m *Matcher) MatchEnglish(query string, records []Record) Result {
	return m.english.Match(query, records)
}

// BatchMatch resolves queries in order. progress is called after each query.
func (m *Matcher) BatchMatch(queries []string, records []Record, progress ProgressFunc) []BatchItem {
	return m.batch.Run(queries, records, progress)
}

// ParallelBatchMatch resolves queries on a bounded worker pool. Results keep
// the input order; cancellation stops the batch between queries.
func (m *Matcher) ParallelBatchMatch(ctx context.Context, queries []string, records []Record, progress ProgressFunc) ([]BatchItem, error) {
	return m.batch.RunParallel(ctx, queries, records, progress)
}

// StreamMatch reads one query per line from r and writes one JSON item per
// query to w, in input order. Lines are resolved in bounded batches, so the
// input never has to fit in memory.
func (m *Matcher) StreamMatch(ctx context.Context, r io.Reader, w io.Writer, records []Record) (StreamStats, error) {
	return m.stream.Process(ctx, r, w, records)
}

// Summarize aggregates batch results.
func Summarize(items []BatchItem) Summary {
	return batch.Summarize(items)
}

// QueryText extracts a query from a string or record entry.
func (m *Matcher) QueryText(v interface{}) string {
	return batch.QueryText(v, m.fields)
}

// Fields returns the extractor used to locate name fields in records.
func (m *Matcher) Fields() FieldSource {
	return m.fields
}

// Normalize returns the canonical form of text.
func (m *Matcher) Normalize(text string) string {
	return m.normalizer.Normalize(text)
}

// Separate splits text into its Chinese and Latin halves.
func (m *Matcher) Separate(text string) Halves {
	return m.separator.Separate(text)
}

// Expand applies the shorthand table to text.
func (m *Matcher) Expand(text string) string {
	return m.expander.Expand(text)
}

// Classify maps a confidence to its quality tier.
func (m *Matcher) Classify(confidence float64) Quality {
	return m.classifier.Classify(confidence)
}

// Annotate attaches the quality tier to a raw cascade result.
func (m *Matcher) Annotate(res Result) Annotated {
	return m.classifier.Annotate(res)
}

// Config returns the active configuration.
func (m *Matcher) Config() config.Config {
	return m.config
}

// WarmUp performs system warm-up to optimize performance. Only the first
// call does any work; concurrent callers wait for it to finish.
func (m *Matcher) WarmUp(ctx context.Context, cfg WarmupConfig) {
	ran := false
	m.warmOnce.Do(func() {
		ran = true
		mgr := warmup.NewManager(m.logger, cfg)
		mgr.RegisterResolver(m)
		mgr.RegisterNormalizer(m.normalizer)
		mgr.WarmUp(ctx)
	})
	if !ran {
		m.logger.Debug("System already warmed up, skipping")
	}
}

// Close releases the logger.
func (m *Matcher) Close() error {
	return m.logger.Close()
}
