package site

import (
	"context"
	"slices"
	"sync"
	"time"

	"lawfirm-cms/internal/resource"
)

type cacheEntry struct {
	value  any
	expiry time.Time
}

// listCache keeps public list responses for a fixed TTL.
type listCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newListCache(ttl time.Duration) *listCache {
	return &listCache{ttl: ttl, now: time.Now, entries: make(map[string]cacheEntry)}
}

func (c *listCache) get(key string) (any, bool) {
	c.mu.RLock()
	entry, found := c.entries[key]
	c.mu.RUnlock()

	if found && c.now().Before(entry.expiry) {
		return entry.value, true
	}
	return nil, false
}

func (c *listCache) set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiry: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *listCache) clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// list serves r.List through the cache. A nil cache always fetches. Failed
// fetches are not cached.
func list[T resource.Entity](ctx context.Context, c *listCache, r *resource.Resource[T]) ([]T, error) {
	if c == nil {
		return r.List(ctx)
	}
	key := r.Binding().Path
	if v, ok := c.get(key); ok {
		return slices.Clone(v.([]T)), nil
	}
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	c.set(key, slices.Clone(items))
	return items, nil
}
