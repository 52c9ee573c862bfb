package catalog

import (
	"sort"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached collection result stays fresh.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	items    []Item
	storedAt time.Time
}

// memoCache memoizes collection results by key with a fixed TTL. Entries are
// expired lazily on read; there is no background sweep.
type memoCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newMemoCache(ttl time.Duration, now func() time.Time) *memoCache {
	return &memoCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// get returns the cached items for key, treating anything older than the
// TTL as a miss and dropping it.
func (c *memoCache) get(key string) ([]Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.items, true
}

func (c *memoCache) set(key string, items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{items: items, storedAt: c.now()}
}

// clear discards every entry unconditionally.
func (c *memoCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *memoCache) stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return CacheStats{Size: len(keys), Keys: keys}
}
