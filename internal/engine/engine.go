// Package engine runs the scenario prediction pipeline and memoizes results.
package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/aquaforesee/water-scenario-service/internal/domain"
	"github.com/aquaforesee/water-scenario-service/internal/observability"
)

// NewCache builds the scenario memo store. Entries never expire and no
// janitor runs: a computed scenario stays valid for the life of the process.
func NewCache() *gocache.Cache {
	return gocache.New(gocache.NoExpiration, 0)
}

// Engine computes scenario results through the resolve → estimate →
// summarize pipeline. Completed results are memoized per scenario key, so a
// repeated request returns the identical stored result without recomputation
// and without further advisory calls. A nil advisor disables the advisory
// path entirely.
type Engine struct {
	advisor domain.Advisor
	cache   *gocache.Cache
	logger  *slog.Logger
	metrics *observability.Metrics

	// Master jitter source. Each computation draws one child seed under the
	// mutex, so concurrent predictions never share a rand stream.
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an Engine around the given collaborators. Fix rng's seed in
// tests for reproducible estimates.
func New(advisor domain.Advisor, cache *gocache.Cache, rng *rand.Rand, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		advisor: advisor,
		cache:   cache,
		rng:     rng,
		logger:  logger,
		metrics: metrics,
	}
}

// Predict returns the scenario result for params, computing it on first sight
// and serving the stored result afterwards. The second return reports whether
// the call was served from cache. Stored results are shared between callers
// and must be treated as read-only. Params are assumed validated.
func (e *Engine) Predict(ctx context.Context, params domain.ScenarioParams) (*domain.ScenarioResult, bool) {
	key := params.CacheKey()
	if hit, ok := e.cache.Get(key); ok {
		e.metrics.ScenarioCache.WithLabelValues("hit").Inc()
		return hit.(*domain.ScenarioResult), true
	}
	e.metrics.ScenarioCache.WithLabelValues("miss").Inc()

	start := time.Now()
	result := e.compute(ctx, params)
	e.metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	e.metrics.ScenariosComputed.Inc()

	// Concurrent first requests for one key may each compute; the last
	// writer wins and every later call sees a single stored result.
	e.cache.Set(key, result, gocache.NoExpiration)

	e.logger.Info("scenario computed",
		"regions", len(params.RegionIDs),
		"districts", result.Summary.TotalDistricts,
		"high_risk", result.Summary.HighRiskCount,
		"ai_enhanced", result.AIEnhanced,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, false
}

func (e *Engine) compute(ctx context.Context, params domain.ScenarioParams) *domain.ScenarioResult {
	rng := rand.New(rand.NewSource(e.nextSeed()))

	var predictions []domain.DistrictPrediction
	aiEnhanced := false

	for _, regionID := range params.RegionIDs {
		profile := domain.Profile(regionID)
		factors, advised := domain.ResolveFactors(ctx, e.advisor, e.logger, profile, params)
		if advised {
			aiEnhanced = true
		}
		for i, district := range domain.Districts(regionID) {
			predictions = append(predictions, domain.EstimateDistrict(rng, profile, district, i, params, factors))
		}
	}

	summary := domain.Summarize(predictions, params)

	return &domain.ScenarioResult{
		Predictions: predictions,
		Summary:     summary,
		AIEnhanced:  aiEnhanced,
	}
}

func (e *Engine) nextSeed() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Int63()
}
