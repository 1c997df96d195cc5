package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsm/internal/adapter/cache"
	"vsm/internal/adapter/memstore"
	"vsm/internal/adapter/vectorspace"
	"vsm/internal/domain"
	"vsm/internal/logging"
	"vsm/internal/metrics"
	"vsm/internal/port"
)

var _ port.Ranker = (*RankUseCase)(nil)

func catDogStore(t *testing.T) *memstore.MemoryStore {
	t.Helper()
	st := memstore.NewMemoryStore()
	for id, text := range map[string]string{
		"d1": "the cat sat",
		"d2": "the dog sat",
		"d3": "the bird flew",
	} {
		require.NoError(t, st.PutDoc(domain.Document{ID: id, Text: text}))
	}
	return st
}

func docIDs(results []domain.ScoredDocument) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.DocID
	}
	return out
}

func TestRank_BeforeReload(t *testing.T) {
	uc := NewRankUseCase(memstore.NewMemoryStore(), nil, nil, logging.Discard())

	_, err := uc.Rank("cat", domain.RankOptions{})
	assert.ErrorIs(t, err, ErrIndexNotLoaded)
	assert.Equal(t, domain.Stats{}, uc.Stats())
	assert.Nil(t, uc.Index())
}

func TestRank_AfterReload(t *testing.T) {
	m := metrics.New()
	uc := NewRankUseCase(catDogStore(t), cache.NewQueryCache(16, time.Minute), m, logging.Discard())

	stats, err := uc.Reload()
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Documents: 3, Terms: 6}, stats)

	results, err := uc.Rank("cat dog", domain.RankOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2", "d3"}, docIDs(results))
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, 0.0, results[2].Score)

	again, err := uc.Rank("cat dog", domain.RankOptions{})
	require.NoError(t, err)
	assert.Equal(t, results, again)

	hits, misses := uc.cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.GreaterOrEqual(t, misses, int64(1))
}

func TestRank_MatchesIndexWithoutCache(t *testing.T) {
	st := catDogStore(t)
	uc := NewRankUseCase(st, nil, nil, logging.Discard())
	_, err := uc.Reload()
	require.NoError(t, err)

	docs, err := st.ListDocs()
	require.NoError(t, err)
	ix, err := vectorspace.BuildIndex(docs)
	require.NoError(t, err)

	opts := domain.RankOptions{DropZero: true}
	got, err := uc.Rank("sat", opts)
	require.NoError(t, err)
	assert.Equal(t, ix.RankWithOptions("sat", opts), got)
}

func TestReload_PicksUpStoreChanges(t *testing.T) {
	st := catDogStore(t)
	uc := NewRankUseCase(st, cache.NewQueryCache(16, time.Minute), nil, logging.Discard())
	_, err := uc.Reload()
	require.NoError(t, err)

	before, err := uc.Rank("zephyr", domain.RankOptions{DropZero: true})
	require.NoError(t, err)
	assert.Empty(t, before)

	require.NoError(t, st.PutDoc(domain.Document{ID: "d4", Text: "zephyr winds"}))
	_, err = uc.Reload()
	require.NoError(t, err)

	after, err := uc.Rank("zephyr", domain.RankOptions{DropZero: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"d4"}, docIDs(after))
	assert.Equal(t, 4, uc.Stats().Documents)
}

func TestRank_ConcurrentWithReload(t *testing.T) {
	st := catDogStore(t)
	uc := NewRankUseCase(st, cache.NewQueryCache(16, time.Minute), metrics.New(), logging.Discard())
	_, err := uc.Reload()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				results, err := uc.Rank("cat", domain.RankOptions{})
				assert.NoError(t, err)
				assert.Len(t, results, 3)
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_, err := uc.Reload()
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestRank_ReloadBetweenIndexLoadAndCacheFill(t *testing.T) {
	st := memstore.NewMemoryStore()
	require.NoError(t, st.PutDoc(domain.Document{ID: "a", Text: "cat"}))
	require.NoError(t, st.PutDoc(domain.Document{ID: "b", Text: "dog"}))

	uc := NewRankUseCase(st, cache.NewQueryCache(16, time.Minute), nil, logging.Discard())
	_, err := uc.Reload()
	require.NoError(t, err)

	// A rank that read the generation and index just before a reload.
	gen := uc.cache.Generation()
	old := uc.index.Load()

	require.NoError(t, st.PutDoc(domain.Document{ID: "a", Text: "dog"}))
	require.NoError(t, st.PutDoc(domain.Document{ID: "b", Text: "cat"}))
	_, err = uc.Reload()
	require.NoError(t, err)

	stale, _, err := uc.cache.GetOrCompute("cat", domain.RankOptions{}, gen, func() ([]domain.ScoredDocument, error) {
		return old.RankWithOptions("cat", domain.RankOptions{}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, docIDs(stale))

	results, err := uc.Rank("cat", domain.RankOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, docIDs(results))
}

func TestReload_Concurrent(t *testing.T) {
	st := catDogStore(t)
	uc := NewRankUseCase(st, cache.NewQueryCache(16, time.Minute), nil, logging.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Reload()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.NoError(t, st.PutDoc(domain.Document{ID: "d4", Text: "zephyr"}))
	_, err := uc.Reload()
	require.NoError(t, err)
	assert.Equal(t, 4, uc.Stats().Documents)
}

func TestCacheStats(t *testing.T) {
	uncached := NewRankUseCase(catDogStore(t), nil, nil, logging.Discard())
	_, ok := uncached.CacheStats()
	assert.False(t, ok)

	uc := NewRankUseCase(catDogStore(t), cache.NewQueryCache(16, time.Minute), nil, logging.Discard())
	_, err := uc.Reload()
	require.NoError(t, err)

	_, err = uc.Rank("cat", domain.RankOptions{})
	require.NoError(t, err)
	_, err = uc.Rank("cat", domain.RankOptions{})
	require.NoError(t, err)

	stats, ok := uc.CacheStats()
	require.True(t, ok)
	assert.Equal(t, domain.CacheStats{Entries: 1, Hits: 1, Misses: 1}, stats)
}
