package warmup

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency: runtime.NumCPU(),
		Iterations:  200,
		Duration:    5 * time.Second,
		ForceGC:     true,
	}
}

// sampleRecords is a small reference collection exercising every level.
var sampleRecords = []domain.Record{
	{"院校名称": "安徽理工大学", "英文名称": "Anhui University of Science and Technology"},
	{"院校名称": "北京大学", "英文名称": "Peking University"},
	{"院校名称": "淮北师范大学"},
	{"院校名称": "宿州学院"},
	{"name": "Chuzhou University"},
}

// sampleQueries hit the exact, normalized, keyword, fuzzy, semantic and
// dual-path routes.
var sampleQueries = []string{
	"安徽理工大学",
	"ＡＮＨＵＩ University of Science and Technology",
	"北大",
	"淮北师范",
	"宿州学院Suzhou University",
	"Chuzhou Univ",
	"完全无关的名称",
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	resolvers   []ports.Resolver
	normalizers []ports.Normalizer
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterResolver adds a resolver to be warmed up
func (wm *Manager) RegisterResolver(r ports.Resolver) {
	wm.resolvers = append(wm.resolvers, r)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.resolvers)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	warmupCtx := ctx
	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	wm.run(warmupCtx, func(j int) {
		q := sampleQueries[j%len(sampleQueries)]
		for _, n := range wm.normalizers {
			_ = n.Normalize(q)
		}
		for _, r := range wm.resolvers {
			_ = r.Resolve(q, sampleRecords)
		}
	})

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
}

// run calls step Iterations times on each of Concurrency goroutines,
// stopping early when ctx is done.
func (wm *Manager) run(ctx context.Context, step func(j int)) {
	if len(wm.resolvers)+len(wm.normalizers) == 0 {
		return
	}

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func(routineID int) {
			defer wg.Done()
			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				step(routineID + j)
			}
		}(i)
	}
	wg.Wait()
}
