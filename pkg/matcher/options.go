package matcher

import (
	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/batch"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/logger"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/stream"
	"github.com/baditaflorin/go_institution_matcher/internal/core/config"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
	"github.com/baditaflorin/go_institution_matcher/internal/warmup"
)

// Option defines a functional option for configuring a Matcher.
type Option func(*options)

type options struct {
	Config       config.Config
	Tables       *config.Tables
	Logger       ports.Logger
	Normalizer   ports.Normalizer
	Fields       ports.NameFieldExtractor
	Romanizer    ports.Romanizer
	Batch        batch.Options
	Stream       stream.ProcessingConfig
	WarmUp       bool
	WarmUpConfig warmup.WarmupConfig
	err          error
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.Config = cfg
	}
}

// WithConfigFile loads thresholds, policy and tables from a TOML file.
// Options given after it override the file.
func WithConfigFile(path string) Option {
	return func(o *options) {
		cfg, tables, err := config.LoadFile(path)
		if err != nil {
			o.err = err
			return
		}
		o.Config = cfg
		o.Tables = tables
	}
}

// WithChineseThresholds sets the primary cascade thresholds.
func WithChineseThresholds(c config.CascadeConfig) Option {
	return func(o *options) {
		o.Config.Chinese = c
	}
}

// WithEnglishThresholds sets the English cascade thresholds.
func WithEnglishThresholds(c config.CascadeConfig) Option {
	return func(o *options) {
		o.Config.English = c
	}
}

// WithPathPolicy sets the dual-path selection policy.
func WithPathPolicy(p config.PathPolicy) Option {
	return func(o *options) {
		o.Config.Policy = p
	}
}

// WithQualityBands sets the quality tier bounds.
func WithQualityBands(q config.QualityBands) Option {
	return func(o *options) {
		o.Config.Quality = q
	}
}

// WithTables sets the lookup tables.
func WithTables(t *config.Tables) Option {
	return func(o *options) {
		o.Tables = t
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(o *options) {
		o.Logger = logger.FromExisting(lg)
	}
}

// WithPortsLogger sets a logger that already satisfies ports.Logger.
func WithPortsLogger(lg ports.Logger) Option {
	return func(o *options) {
		o.Logger = lg
	}
}

// WithSilentLogging discards all log output.
func WithSilentLogging() Option {
	return func(o *options) {
		o.Logger = logger.NewNopLogger()
	}
}

// WithNormalizer sets a custom normalizer for both paths.
func WithNormalizer(n ports.Normalizer) Option {
	return func(o *options) {
		o.Normalizer = n
	}
}

// WithNameFieldExtractor sets how name fields are found in records.
func WithNameFieldExtractor(fx ports.NameFieldExtractor) Option {
	return func(o *options) {
		o.Fields = fx
	}
}

// WithRomanizer sets the romanizer used by the English path.
func WithRomanizer(r ports.Romanizer) Option {
	return func(o *options) {
		o.Romanizer = r
	}
}

// WithWorkers bounds ParallelBatchMatch; 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.Batch.Workers = n
	}
}

// WithMemoization toggles reuse of results for repeated queries in a batch.
func WithMemoization(enable bool) Option {
	return func(o *options) {
		o.Batch.Memoize = enable
	}
}

// WithWarmUp enables system warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(o *options) {
		o.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(cfg warmup.WarmupConfig) Option {
	return func(o *options) {
		o.WarmUpConfig = cfg
		o.WarmUp = true
	}
}

// WithStreamBatchSize sets how many lines StreamMatch resolves at a time.
func WithStreamBatchSize(n int) Option {
	return func(o *options) {
		o.Stream.BatchSize = n
	}
}

// WithStreamConfig replaces the stream processing settings.
func WithStreamConfig(cfg StreamConfig) Option {
	return func(o *options) {
		o.Stream = cfg
	}
}
