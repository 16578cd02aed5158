package store

import (
	"sort"
	"sync"
	"time"
)

// MemoryCache is an in-memory collection cache keyed by resource name.
// Writes replace whole entries, readers never observe a partial collection.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]Entry),
	}
}

// Get retrieves the entry stored under key
func (c *MemoryCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return entry, ok
}

// Set replaces the entry stored under key
func (c *MemoryCache) Set(key string, data any, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Data: data, FetchedAt: fetchedAt}
}

// Delete drops the entry stored under key
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Keys lists the cached resource keys in sorted order
func (c *MemoryCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
