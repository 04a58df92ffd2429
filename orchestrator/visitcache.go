package orchestrator

import (
	"sync"
	"time"

	"github.com/use-agent/shopscout/models"
)

// visitCacheTTL bounds how long a visited URL's extraction is reused
// across separate Research calls.
const visitCacheTTL = 10 * time.Minute

const visitCacheMaxEntries = 500

type cacheEntry struct {
	candidate models.ProductCandidate
	createdAt time.Time
}

// visitCache is an in-memory, process-lifetime cache of extractions
// keyed by the visited URL, so two overlapping Research calls (or a
// listing-page recursion that rediscovers a URL already visited at the
// top level) don't re-fetch or re-drive-browser the same page. Grounded
// on purify's cache.Cache: mutex-guarded map, TTL eviction, random
// eviction at capacity (map iteration order in Go is already randomized,
// so the first key visited is as good as any other to evict).
type visitCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
}

func newVisitCache() *visitCache {
	return &visitCache{store: make(map[string]cacheEntry)}
}

func (c *visitCache) get(url string) (models.ProductCandidate, bool) {
	c.mu.RLock()
	e, ok := c.store[url]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > visitCacheTTL {
		return models.ProductCandidate{}, false
	}
	return e.candidate, true
}

func (c *visitCache) set(url string, candidate models.ProductCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= visitCacheMaxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}
	c.store[url] = cacheEntry{candidate: candidate, createdAt: time.Now()}
}
