package jtl

import (
	"sort"
	"sync"
)

// TemplateCache maps template locations to render results.
// It is unbounded, entries never expire, and attributes are not part of the key:
// two renders of one location with different attributes share a slot.
// It never renders by itself; the engine checks it before rendering and fills it after.
type TemplateCache struct {
	mu      sync.RWMutex
	entries map[string]*SourceCode
	stats   TemplateCacheStats
}

// TemplateCacheStats tracks cache performance metrics.
type TemplateCacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// NewTemplateCache creates an empty cache.
func NewTemplateCache() *TemplateCache {
	return &TemplateCache{entries: make(map[string]*SourceCode)}
}

// Get returns the result stored for id.
func (c *TemplateCache) Get(id string) (*SourceCode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, ok := c.entries[id]
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return result, ok
}

// Put stores result for id, replacing any previous entry.
func (c *TemplateCache) Put(id string, result *SourceCode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = result
}

// Remove drops the entry for id. It reports whether an entry existed.
func (c *TemplateCache) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok {
		return false
	}
	delete(c.entries, id)
	return true
}

// InvalidateCache drops every entry.
func (c *TemplateCache) InvalidateCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*SourceCode)
}

// Len returns the number of entries.
func (c *TemplateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Keys returns the cached ids, sorted.
func (c *TemplateCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns hit and miss counts and the current entry count.
func (c *TemplateCache) Stats() TemplateCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Entries = len(c.entries)
	return stats
}
