package dao

import (
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL is the default time-to-live of cached list responses.
const DefaultCacheTTL = 5 * time.Second

type cacheEntry struct {
	value     any
	timestamp time.Time
}

// ResourceCache keeps list responses for a short while so that redrawing
// a screen does not hit the backend again.
type ResourceCache struct {
	data map[string]cacheEntry
	ttl  time.Duration
	now  func() time.Time
	mx   sync.RWMutex
}

// NewResourceCache creates a new ResourceCache with the specified TTL. A
// non positive TTL disables caching.
func NewResourceCache(ttl time.Duration) *ResourceCache {
	return &ResourceCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the value for key unless missing or expired.
func (c *ResourceCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mx.RLock()
	defer c.mx.RUnlock()

	entry, ok := c.data[key]
	if !ok || c.now().Sub(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.value, true
}

// Set stores a value under key.
func (c *ResourceCache) Set(key string, v any) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data[key] = cacheEntry{value: v, timestamp: c.now()}
}

// Invalidate removes a specific key from the cache.
func (c *ResourceCache) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mx.Lock()
	defer c.mx.Unlock()

	delete(c.data, key)
}

// InvalidatePrefix removes all cache entries whose keys start with the given prefix.
func (c *ResourceCache) InvalidatePrefix(prefix string) {
	if c == nil {
		return
	}
	c.mx.Lock()
	defer c.mx.Unlock()

	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

// Clear removes all entries from the cache.
func (c *ResourceCache) Clear() {
	if c == nil {
		return
	}
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data = make(map[string]cacheEntry)
}

// Len returns the number of entries, expired ones included.
func (c *ResourceCache) Len() int {
	if c == nil {
		return 0
	}
	c.mx.RLock()
	defer c.mx.RUnlock()
	return len(c.data)
}
