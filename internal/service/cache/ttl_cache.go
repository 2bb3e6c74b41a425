package cache

import (
	"sync"
	"time"
)

type entry struct {
	v      any
	exp    time.Time
	access time.Time
}

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

// TTLCache is an in-memory cache with optional expiry and a size bound.
// When full, the least recently accessed entry is evicted.
type TTLCache struct {
	mu      sync.Mutex
	m       map[string]*entry
	maxSize int
	now     func() time.Time
	stats   Stats
}

// NewTTLCache creates a cache holding at most maxSize entries; maxSize <= 0 means unbounded.
func NewTTLCache(maxSize int) *TTLCache {
	return &TTLCache{m: make(map[string]*entry), maxSize: maxSize, now: time.Now}
}

func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	now := c.now()
	if !e.exp.IsZero() && now.After(e.exp) {
		delete(c.m, key)
		c.stats.Misses++
		return nil, false
	}
	e.access = now
	c.stats.Hits++
	return e.v, true
}

// Set stores v; ttl <= 0 keeps it until evicted.
func (c *TTLCache) Set(key string, v any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	if _, exists := c.m[key]; !exists && c.maxSize > 0 && len(c.m) >= c.maxSize {
		c.evictLRU()
	}
	c.m[key] = &entry{v: v, exp: exp, access: now}
}

func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

func (c *TTLCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = len(c.m)
	return s
}

// caller holds mu
func (c *TTLCache) evictLRU() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.m {
		if oldestKey == "" || e.access.Before(oldest) {
			oldestKey, oldest = k, e.access
		}
	}
	if oldestKey != "" {
		delete(c.m, oldestKey)
		c.stats.Evictions++
	}
}
