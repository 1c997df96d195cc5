package usecase

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"vsm/internal/adapter/cache"
	"vsm/internal/adapter/vectorspace"
	"vsm/internal/domain"
	"vsm/internal/metrics"
	"vsm/internal/port"
)

// ErrIndexNotLoaded is returned by Rank before the first successful Reload.
var ErrIndexNotLoaded = errors.New("index not loaded")

// RankUseCase serves rankings from an immutable index built from the corpus
// store. Reload builds a fresh index and swaps it in atomically, so rankings
// in flight keep using the index they started with.
type RankUseCase struct {
	store   port.CorpusStore
	cache   *cache.QueryCache // nil disables caching
	metrics *metrics.Metrics  // nil disables instrumentation
	logger  *logrus.Entry

	reloadMu sync.Mutex
	index    atomic.Pointer[vectorspace.Index]
}

// NewRankUseCase creates a new rank use case.
func NewRankUseCase(
	store port.CorpusStore,
	queryCache *cache.QueryCache,
	m *metrics.Metrics,
	logger *logrus.Entry,
) *RankUseCase {
	return &RankUseCase{
		store:   store,
		cache:   queryCache,
		metrics: m,
		logger:  logger,
	}
}

// Reload rebuilds the index from the store. Reloads are serialized so an
// index built from an older snapshot never replaces a newer one.
func (u *RankUseCase) Reload() (domain.Stats, error) {
	u.reloadMu.Lock()
	defer u.reloadMu.Unlock()

	start := time.Now()

	docs, err := u.store.ListDocs()
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to list documents: %w", err)
	}

	ix, err := vectorspace.BuildIndex(docs)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to build index: %w", err)
	}

	u.index.Store(ix)
	if u.cache != nil {
		u.cache.Invalidate()
	}

	stats := ix.Stats()
	elapsed := time.Since(start)
	if u.metrics != nil {
		u.metrics.IndexBuildSeconds.Observe(elapsed.Seconds())
		u.metrics.IndexDocuments.Set(float64(stats.Documents))
		u.metrics.IndexTerms.Set(float64(stats.Terms))
	}

	u.logger.WithFields(logrus.Fields{
		"docs":     stats.Documents,
		"terms":    stats.Terms,
		"build_ms": elapsed.Milliseconds(),
	}).Info("index built")

	return stats, nil
}

// Rank orders every indexed document by similarity to query.
func (u *RankUseCase) Rank(query string, opts domain.RankOptions) ([]domain.ScoredDocument, error) {
	// Generation before index: Reload swaps then invalidates, so a result
	// from a replaced index is only ever stored under a retired generation.
	var gen uint64
	if u.cache != nil {
		gen = u.cache.Generation()
	}

	ix := u.index.Load()
	if ix == nil {
		u.observe("error", 0)
		return nil, ErrIndexNotLoaded
	}

	start := time.Now()

	if u.cache == nil {
		results := ix.RankWithOptions(query, opts)
		u.observe(resultLabel("miss", results), time.Since(start))
		return results, nil
	}

	results, hit, err := u.cache.GetOrCompute(query, opts, gen, func() ([]domain.ScoredDocument, error) {
		return ix.RankWithOptions(query, opts), nil
	})
	if err != nil {
		u.observe("error", time.Since(start))
		return nil, err
	}

	label := "miss"
	if hit {
		label = "hit"
	}
	if u.metrics != nil {
		if hit {
			u.metrics.CacheHitsTotal.Inc()
		} else {
			u.metrics.CacheMissesTotal.Inc()
		}
	}
	u.observe(resultLabel(label, results), time.Since(start))

	u.logger.WithFields(logrus.Fields{
		"query":      query,
		"results":    len(results),
		"cache":      label,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("ranked")

	return results, nil
}

// Stats describes the live index, or the zero value before the first Reload.
func (u *RankUseCase) Stats() domain.Stats {
	ix := u.index.Load()
	if ix == nil {
		return domain.Stats{}
	}
	return ix.Stats()
}

// CacheStats reports the query cache counters. ok is false when caching is
// disabled.
func (u *RankUseCase) CacheStats() (stats domain.CacheStats, ok bool) {
	if u.cache == nil {
		return domain.CacheStats{}, false
	}
	hits, misses := u.cache.Stats()
	return domain.CacheStats{
		Entries: u.cache.Size(),
		Hits:    hits,
		Misses:  misses,
	}, true
}

// Index returns the live index, or nil before the first Reload.
func (u *RankUseCase) Index() *vectorspace.Index {
	return u.index.Load()
}

func (u *RankUseCase) observe(label string, elapsed time.Duration) {
	if u.metrics == nil {
		return
	}
	u.metrics.RankQueriesTotal.WithLabelValues(label).Inc()
	if elapsed > 0 {
		u.metrics.RankLatency.Observe(elapsed.Seconds())
	}
}

func resultLabel(label string, results []domain.ScoredDocument) string {
	if len(results) == 0 {
		return "empty"
	}
	return label
}
