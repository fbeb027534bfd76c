package storage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T) (*URLCache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
	return NewURLCache(WithClock(clock.Now)), clock
}

func TestURLCache_GetSet(t *testing.T) {
	cache, _ := newTestCache(t)

	_, ok := cache.Get("property-photos/p1/photo.jpg")
	assert.False(t, ok)

	cache.Set("property-photos/p1/photo.jpg", "https://s3/signed-1")

	url, ok := cache.Get("property-photos/p1/photo.jpg")
	require.True(t, ok)
	assert.Equal(t, "https://s3/signed-1", url)
}

func TestURLCache_Expiry(t *testing.T) {
	cache, clock := newTestCache(t)

	cache.Set("k", "https://s3/signed")

	clock.Advance(3599 * time.Second)
	_, ok := cache.Get("k")
	assert.True(t, ok, "entry should still be live just before the TTL")

	clock.Advance(2 * time.Second)
	_, ok = cache.Get("k")
	assert.False(t, ok, "entry should expire after the TTL")

	// lazy eviction removed the entry on read
	assert.Equal(t, 0, cache.Size())
}

func TestURLCache_SetOverwritesAndResetsTTL(t *testing.T) {
	cache, clock := newTestCache(t)

	cache.Set("k", "https://s3/old")
	clock.Advance(30 * time.Minute)
	cache.Set("k", "https://s3/new")

	clock.Advance(45 * time.Minute)
	url, ok := cache.Get("k")
	require.True(t, ok, "TTL should restart from the second Set")
	assert.Equal(t, "https://s3/new", url)
}

func TestURLCache_ExpiredEntriesCountUntilRead(t *testing.T) {
	cache, clock := newTestCache(t)

	cache.Set("a", "ua")
	cache.Set("b", "ub")
	clock.Advance(2 * time.Hour)

	assert.Equal(t, 2, cache.Size(), "expired entries linger until read")

	cache.Get("a")
	assert.Equal(t, 1, cache.Size())
}

func TestURLCache_Clear(t *testing.T) {
	cache, _ := newTestCache(t)

	cache.Set("a", "ua")
	cache.Set("b", "ub")
	cache.Clear()

	assert.Equal(t, 0, cache.Size())
	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestURLCache_Stats(t *testing.T) {
	cache, clock := newTestCache(t)

	cache.Set("a", "ua")
	cache.Get("a")  // hit
	cache.Get("zz") // miss
	clock.Advance(2 * time.Hour)
	cache.Get("a") // expired, counts as miss

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 0, stats.Size)
}

func TestURLCache_CustomTTL(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cache := NewURLCache(WithClock(clock.Now), WithTTL(time.Minute))

	cache.Set("k", "u")
	clock.Advance(61 * time.Second)
	_, ok := cache.Get("k")
	assert.False(t, ok)
}

func TestURLCache_ConcurrentAccess(t *testing.T) {
	cache := NewURLCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k-%d-%d", n, j%10)
				cache.Set(key, "url")
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.NotZero(t, cache.Size())
}
