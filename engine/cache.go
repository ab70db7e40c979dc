package engine

import (
	"strings"
	"sync"
	"time"
)

// cacheEntry memoizes one aggregation outcome. found=false entries are
// cached too, so repeated lookups for unknown or delisted symbols don't hit
// the providers on every request.
type cacheEntry struct {
	price     Price
	found     bool
	writtenAt time.Time
}

// ttlCache is a process-lifetime in-memory cache keyed by symbol/quote.
// Entries expire logically after the TTL and are physically replaced on the
// next write to the same key, no background sweeper. The working set is
// bounded by query cardinality.
type ttlCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func cacheKey(symbol, quote string) string {
	return strings.ToLower(symbol) + "/" + strings.ToLower(quote)
}

// get returns the cached outcome and whether the lookup hit. Expired
// entries count as misses.
func (c *ttlCache) get(key string) (price Price, found bool, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.writtenAt) >= c.ttl {
		return Price{}, false, false
	}
	return entry.price, entry.found, true
}

func (c *ttlCache) put(key string, price Price, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{price: price, found: found, writtenAt: c.now()}
}
