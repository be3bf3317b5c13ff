package metadata

import (
	"fmt"
	"sync"

	"github.com/marquee/marquee/internal/showtime"
)

// Outcome is the tri-state result of a cache probe. Distinguishing a
// confirmed miss from a key that was never looked up is what prevents
// re-querying the service for titles it already said it does not know.
type Outcome int

const (
	// Uncached means no lookup has happened for this key yet.
	Uncached Outcome = iota
	// Found means a lookup succeeded and its result is cached.
	Found
	// NotFound means the service confirmed it has no match for this key.
	NotFound
)

type cacheEntry struct {
	outcome    Outcome
	enrichment *showtime.Enrichment
}

// Cache is a process-lifetime store of lookup results keyed by
// (title, year). It is never persisted across runs.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache creates an empty lookup cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Key builds the composite cache key for a title and optional year.
func Key(title string, year *int) string {
	if year == nil {
		return title + "|"
	}
	return fmt.Sprintf("%s|%d", title, *year)
}

// Get probes the cache. The enrichment value is only meaningful when the
// outcome is Found.
func (c *Cache) Get(key string) (*showtime.Enrichment, Outcome) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, Uncached
	}
	return entry.enrichment, entry.outcome
}

// SetFound records a successful lookup result.
func (c *Cache) SetFound(key string, enrichment *showtime.Enrichment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{outcome: Found, enrichment: enrichment}
}

// SetNotFound records a confirmed service miss. Transport failures must
// not be recorded here; they stay Uncached so a later call can retry.
func (c *Cache) SetNotFound(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{outcome: NotFound}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
