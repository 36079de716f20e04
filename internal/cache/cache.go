// Package cache holds upstream query results so repeated page renders for the
// same query key do not re-fetch within the TTL.
package cache

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Entry is a cached upstream response body.
type Entry struct {
	Body      []byte
	FetchedAt time.Time
}

// item wraps a cached entry with expiry and insertion order tracking.
type item struct {
	entry     *Entry
	expiry    time.Time
	insertIdx int64
}

// QueryCache caches successful upstream bodies keyed by query key.
// Keys are built with InvestorsKey and InvestorKey so that each investor id
// owns its own entry. A zero TTL disables the cache. Safe for concurrent use.
type QueryCache struct {
	mu         sync.RWMutex
	items      map[string]item
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// New creates a QueryCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *QueryCache {
	return &QueryCache{
		items:      make(map[string]item),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// InvestorsKey is the query key of the investors list.
func InvestorsKey() string {
	return "investors"
}

// InvestorKey is the query key of one investor's detail.
func InvestorKey(id int) string {
	return "investor:" + strconv.Itoa(id)
}

// Enabled reports whether entries are retained at all.
func (c *QueryCache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// TTL returns how long entries live. Zero for a nil or disabled cache.
func (c *QueryCache) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}

// Get returns a cached entry if found and not expired.
func (c *QueryCache) Get(key string) (*Entry, bool) {
	if !c.Enabled() {
		return nil, false
	}

	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(it.expiry) {
		// Expired: remove lazily
		c.mu.Lock()
		if it2, ok2 := c.items[key]; ok2 && c.now().After(it2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return it.entry, true
}

// Set stores a body under key. Evicts the oldest entry if at capacity.
func (c *QueryCache) Set(key string, body []byte) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	it := item{
		entry:     &Entry{Body: body, FetchedAt: now},
		expiry:    now.Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	if _, exists := c.items[key]; exists {
		c.items[key] = it
		return
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = it
}

// InvalidatePrefix removes all entries whose key starts with prefix.
func (c *QueryCache) InvalidatePrefix(prefix string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *QueryCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *QueryCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, it := range c.items {
		if oldestIdx == -1 || it.insertIdx < oldestIdx {
			oldestIdx = it.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
