package geospatial

import (
	"sync"
	"sync/atomic"
	"time"
)

// LayerCache is a concurrent-safe LRU cache of encoded layers with TTL
// expiration. Keys are layer names.
type LayerCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	order      []string // oldest first
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	hits       atomic.Int64
	misses     atomic.Int64
}

type cacheEntry struct {
	data     []byte
	storedAt time.Time
}

// CacheStats reports cache occupancy and hit rate.
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// NewLayerCache creates a cache holding up to maxEntries layers for ttl.
// A non-positive ttl keeps entries until they are evicted.
func NewLayerCache(maxEntries int, ttl time.Duration) *LayerCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &LayerCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns the cached bytes for key, or nil on a miss or expiry.
func (c *LayerCache) Get(key string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		c.unlink(key)
		c.misses.Add(1)
		return nil
	}

	c.unlink(key)
	c.order = append(c.order, key)
	c.hits.Add(1)
	return e.data
}

// Put stores data under key, evicting the least recently used entry when
// the cache is full.
func (c *LayerCache) Put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.unlink(key)
	} else {
		for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
	c.entries[key] = &cacheEntry{data: data, storedAt: c.now()}
	c.order = append(c.order, key)
}

// Purge drops every entry. Hit and miss counters are kept.
func (c *LayerCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.order = nil
}

// Stats returns a snapshot of the cache counters.
func (c *LayerCache) Stats() CacheStats {
	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return CacheStats{
		Entries:    entries,
		MaxEntries: c.maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    rate,
	}
}

func (c *LayerCache) unlink(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
