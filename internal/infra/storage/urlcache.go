package storage

import (
	"sync"
	"time"

	"github.com/propertypassport/api/internal/metrics"
)

// DefaultURLTTL is the lifetime of a cached signed URL. It matches the
// presign expiry so the cache never serves a URL past its signature.
const DefaultURLTTL = 3600 * time.Second

type urlEntry struct {
	url       string
	expiresAt time.Time
}

// URLCache is an in-memory cache of signed GET URLs keyed by object path.
// Expired entries are evicted lazily on read. Safe for concurrent use.
type URLCache struct {
	mu      sync.Mutex
	entries map[string]urlEntry
	ttl     time.Duration
	now     func() time.Time

	hits   int64
	misses int64
}

// URLCacheOption configures a URLCache.
type URLCacheOption func(*URLCache)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) URLCacheOption {
	return func(c *URLCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects a clock, used by tests to control expiry.
func WithClock(now func() time.Time) URLCacheOption {
	return func(c *URLCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewURLCache creates an empty signed URL cache.
func NewURLCache(opts ...URLCacheOption) *URLCache {
	c := &URLCache{
		entries: make(map[string]urlEntry),
		ttl:     DefaultURLTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached URL for key if present and not expired. An expired
// entry is removed and reported as a miss.
func (c *URLCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		metrics.SignedURLCacheMisses.Inc()
		return "", false
	}

	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		metrics.SignedURLCacheSize.Set(float64(len(c.entries)))
		c.misses++
		metrics.SignedURLCacheMisses.Inc()
		return "", false
	}

	c.hits++
	metrics.SignedURLCacheHits.Inc()
	return entry.url, true
}

// Set stores a URL under key, overwriting any existing entry and resetting
// its lifetime.
func (c *URLCache) Set(key, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = urlEntry{
		url:       url,
		expiresAt: c.now().Add(c.ttl),
	}
	metrics.SignedURLCacheSize.Set(float64(len(c.entries)))
}

// Delete removes an entry, if present.
func (c *URLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	metrics.SignedURLCacheSize.Set(float64(len(c.entries)))
}

// Size returns the number of stored entries, expired ones included until
// their next read.
func (c *URLCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *URLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]urlEntry)
	metrics.SignedURLCacheSize.Set(0)
}

// CacheStats is a point-in-time snapshot of cache effectiveness.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// Stats returns hit/miss counters and the current entry count.
func (c *URLCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:   c.hits,
		Misses: c.misses,
		Size:   len(c.entries),
	}
}
