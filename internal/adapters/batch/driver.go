// Package batch runs many queries against one reference collection and
// reports progress after each query.
package batch

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// Options configures a Driver.
type Options struct {
	// Workers bounds RunParallel; 0 means GOMAXPROCS.
	Workers int
	// Memoize reuses the result of a query seen earlier in the same batch.
	Memoize bool
}

// Driver iterates a batch over a Resolver.
type Driver struct {
	resolver ports.Resolver
	logger   ports.Logger
	opts     Options
}

// NewDriver creates a batch driver.
func NewDriver(resolver ports.Resolver, logger ports.Logger, opts Options) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Driver{resolver: resolver, logger: logger, opts: opts}
}

// Run matches queries in order. progress, when set, is called once per
// query with (i+1)/len(queries).
func (d *Driver) Run(queries []string, records []domain.Record, progress ports.ProgressFunc) []domain.BatchItem {
	start := time.Now()
	d.logger.Info("Starting batch", "queries", len(queries), "records", len(records))

	cache := newMemo(d.opts.Memoize)
	items := make([]domain.BatchItem, 0, len(queries))
	total := float64(len(queries))
	for i, q := range queries {
		items = append(items, domain.BatchItem{
			Query:     q,
			Position:  i,
			Annotated: d.resolve(cache, q, records),
		})
		if progress != nil {
			progress(float64(i+1) / total)
		}
	}

	d.logger.Info("Batch completed", "queries", len(queries), "duration", time.Since(start))
	return items
}

// RunParallel matches queries on a bounded pool of workers. Results keep the
// input order and progress fractions are strictly increasing. Cancellation
// is only observed between queries; on cancellation the completed items are
// returned, in order, together with the context error.
func (d *Driver) RunParallel(ctx context.Context, queries []string, records []domain.Record, progress ports.ProgressFunc) ([]domain.BatchItem, error) {
	start := time.Now()
	d.logger.Info("Starting parallel batch",
		"queries", len(queries),
		"records", len(records),
		"workers", d.opts.Workers,
	)

	cache := newMemo(d.opts.Memoize)
	total := len(queries)
	items := make([]domain.BatchItem, total)
	done := make([]bool, total)

	var mu sync.Mutex
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i, q := range queries {
		if gctx.Err() != nil {
			break
		}
		i, q := i, q
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := d.resolve(cache, q, records)

			mu.Lock()
			defer mu.Unlock()
			items[i] = domain.BatchItem{Query: q, Position: i, Annotated: res}
			done[i] = true
			completed++
			if progress != nil {
				progress(float64(completed) / float64(total))
			}
			return nil
		})
	}
	err := g.Wait()

	if completed < total {
		if err == nil {
			err = ctx.Err()
		}
		partial := make([]domain.BatchItem, 0, completed)
		for i, ok := range done {
			if ok {
				partial = append(partial, items[i])
			}
		}
		d.logger.Warn("Parallel batch interrupted",
			"completed", completed,
			"queries", total,
			"error", err,
		)
		return partial, err
	}

	d.logger.Info("Parallel batch completed", "queries", total, "duration", time.Since(start))
	return items, nil
}

func (d *Driver) resolve(cache *memo, query string, records []domain.Record) domain.Annotated {
	if res, ok := cache.get(query); ok {
		return res
	}
	res := d.resolver.Resolve(query, records)
	cache.put(query, res)
	return res
}

type memoEntry struct {
	query  string
	result domain.Annotated
}

// memo caches results per batch, keyed by the xxhash of the query text.
// A hash collision is detected by comparing the stored text and is simply
// not cached.
type memo struct {
	enabled bool
	mu      sync.RWMutex
	entries map[uint64]memoEntry
}

func newMemo(enabled bool) *memo {
	return &memo{enabled: enabled, entries: make(map[uint64]memoEntry)}
}

func (m *memo) get(query string) (domain.Annotated, bool) {
	if !m.enabled {
		return domain.Annotated{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[xxhash.Sum64String(query)]
	if !ok || e.query != query {
		return domain.Annotated{}, false
	}
	return e.result, true
}

func (m *memo) put(query string, res domain.Annotated) {
	if !m.enabled {
		return
	}
	key := xxhash.Sum64String(query)
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && e.query != query {
		return
	}
	m.entries[key] = memoEntry{query: query, result: res}
}
