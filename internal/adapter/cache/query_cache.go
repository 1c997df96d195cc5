package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
	"vsm/internal/domain"
)

// QueryCache is a bounded LRU of ranking results with a TTL. Entries are
// tagged with the index generation they were computed against, so an index
// swap followed by Invalidate retires every older entry.
type QueryCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	order    []string
	maxSize  int
	ttl      time.Duration
	indexGen uint64
	group    singleflight.Group
	hits     atomic.Int64
	misses   atomic.Int64
}

type cacheEntry struct {
	results   []domain.ScoredDocument
	timestamp time.Time
	indexGen  uint64
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// cacheKey folds case and whitespace so equivalent queries share an entry.
func cacheKey(query string, opts domain.RankOptions) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	raw := fmt.Sprintf("%s|zero=%t|all=%t|limit=%d", normalized, opts.DropZero, opts.RequireAll, opts.Limit)
	hash := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(hash[:16])
}

func (c *QueryCache) Get(query string, opts domain.RankOptions) ([]domain.ScoredDocument, bool) {
	key := cacheKey(query, opts)

	c.mu.RLock()
	entry, exists := c.entries[key]
	currentGen := c.indexGen
	c.mu.RUnlock()

	if !exists {
		c.misses.Add(1)
		return nil, false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.indexGen != currentGen {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}

	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		c.moveToEnd(key)
	}
	c.mu.Unlock()

	c.hits.Add(1)
	return copyResults(entry.results), true
}

func (c *QueryCache) Put(query string, opts domain.RankOptions, results []domain.ScoredDocument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(cacheKey(query, opts), results, c.indexGen)
}

func (c *QueryCache) putLocked(key string, results []domain.ScoredDocument, gen uint64) {
	if gen != c.indexGen {
		return
	}
	entry := &cacheEntry{
		results:   copyResults(results),
		timestamp: time.Now(),
		indexGen:  gen,
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Generation returns the current index generation. Read it before loading
// the index a computation will use and pass it to GetOrCompute.
func (c *QueryCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexGen
}

// GetOrCompute returns a cached ranking or computes it once, even when many
// callers ask for the same query concurrently. The bool reports a cache hit.
// gen is the generation observed before compute's index was loaded; results
// computed under an older generation are returned but never stored.
func (c *QueryCache) GetOrCompute(
	query string,
	opts domain.RankOptions,
	gen uint64,
	compute func() ([]domain.ScoredDocument, error),
) ([]domain.ScoredDocument, bool, error) {
	if results, hit := c.Get(query, opts); hit {
		return results, true, nil
	}

	key := cacheKey(query, opts)
	val, err, _ := c.group.Do(fmt.Sprintf("%d:%s", gen, key), func() (interface{}, error) {
		results, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.putLocked(key, results, gen)
		c.mu.Unlock()
		return results, nil
	})
	if err != nil {
		return nil, false, err
	}
	return copyResults(val.([]domain.ScoredDocument)), false, nil
}

// Invalidate drops every entry and starts a new index generation.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.indexGen++
}

func (c *QueryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *QueryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *QueryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func copyResults(results []domain.ScoredDocument) []domain.ScoredDocument {
	if results == nil {
		return nil
	}
	out := make([]domain.ScoredDocument, len(results))
	copy(out, results)
	return out
}
