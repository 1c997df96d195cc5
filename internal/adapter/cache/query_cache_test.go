package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsm/internal/domain"
)

func results(ids ...string) []domain.ScoredDocument {
	out := make([]domain.ScoredDocument, len(ids))
	for i, id := range ids {
		out[i] = domain.ScoredDocument{DocID: id, Score: 1 / float64(i+1)}
	}
	return out
}

func TestQueryCache_PutGet(t *testing.T) {
	c := NewQueryCache(10, time.Minute)

	_, hit := c.Get("cat", domain.RankOptions{})
	assert.False(t, hit)

	c.Put("cat", domain.RankOptions{}, results("d1", "d2"))

	got, hit := c.Get("cat", domain.RankOptions{})
	require.True(t, hit)
	assert.Equal(t, results("d1", "d2"), got)

	got, hit = c.Get("  CAT ", domain.RankOptions{})
	assert.True(t, hit, "case and whitespace are folded")
	assert.Equal(t, results("d1", "d2"), got)

	_, hit = c.Get("cat", domain.RankOptions{DropZero: true})
	assert.False(t, hit, "options are part of the key")

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(2), misses)
}

func TestQueryCache_ReturnsCopies(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	c.Put("q", domain.RankOptions{}, results("a"))

	got, _ := c.Get("q", domain.RankOptions{})
	got[0].DocID = "mutated"

	again, _ := c.Get("q", domain.RankOptions{})
	assert.Equal(t, "a", again[0].DocID)
}

func TestQueryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewQueryCache(2, time.Minute)

	c.Put("a", domain.RankOptions{}, results("1"))
	c.Put("b", domain.RankOptions{}, results("2"))
	_, _ = c.Get("a", domain.RankOptions{})
	c.Put("c", domain.RankOptions{}, results("3"))

	assert.Equal(t, 2, c.Size())
	_, hit := c.Get("b", domain.RankOptions{})
	assert.False(t, hit)
	_, hit = c.Get("a", domain.RankOptions{})
	assert.True(t, hit)
}

func TestQueryCache_TTL(t *testing.T) {
	c := NewQueryCache(10, 10*time.Millisecond)
	c.Put("q", domain.RankOptions{}, results("a"))

	time.Sleep(30 * time.Millisecond)

	_, hit := c.Get("q", domain.RankOptions{})
	assert.False(t, hit)
	assert.Equal(t, 0, c.Size())
}

func TestQueryCache_Invalidate(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	c.Put("q", domain.RankOptions{}, results("a"))

	c.Invalidate()

	_, hit := c.Get("q", domain.RankOptions{})
	assert.False(t, hit)
	assert.Equal(t, 0, c.Size())
}

func TestQueryCache_GetOrCompute(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	var calls atomic.Int32

	compute := func() ([]domain.ScoredDocument, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return results("x", "y"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _, err := c.GetOrCompute("shared query", domain.RankOptions{}, c.Generation(), compute)
			assert.NoError(t, err)
			assert.Equal(t, results("x", "y"), got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())

	got, hit, err := c.GetOrCompute("shared query", domain.RankOptions{}, c.Generation(), compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, results("x", "y"), got)
}

func TestQueryCache_GetOrComputeError(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	boom := errors.New("boom")

	_, _, err := c.GetOrCompute("q", domain.RankOptions{}, c.Generation(), func() ([]domain.ScoredDocument, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Size())
}

func TestQueryCache_GetOrComputeStaleGeneration(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	gen := c.Generation()

	c.Invalidate()
	assert.Equal(t, gen+1, c.Generation())

	got, hit, err := c.GetOrCompute("q", domain.RankOptions{}, gen, func() ([]domain.ScoredDocument, error) {
		return results("old"), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, results("old"), got)
	assert.Equal(t, 0, c.Size(), "results from an older generation are not stored")

	got, hit, err = c.GetOrCompute("q", domain.RankOptions{}, c.Generation(), func() ([]domain.ScoredDocument, error) {
		return results("new"), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, results("new"), got)
	assert.Equal(t, 1, c.Size())
}
