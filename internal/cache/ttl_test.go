package cache

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
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
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(size int, ttl time.Duration) (*TTLCache[string, string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string, string]("test", size, ttl, zap.NewNop())
	c.now = clock.Now
	return c, clock
}

func TestTTLCacheHitBeforeExpiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Put("bitcoin", "doc-1")
	clock.Advance(59 * time.Second)

	got, ok := c.Get("bitcoin")
	if !ok || got != "doc-1" {
		t.Fatalf("expected stored value, got %q %v", got, ok)
	}
}

func TestTTLCacheMissAfterExpiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Put("bitcoin", "doc-1")
	clock.Advance(time.Minute)

	if _, ok := c.Get("bitcoin"); ok {
		t.Fatal("expected expired entry to behave as a miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped, len=%d", c.Len())
	}

	c.Put("bitcoin", "doc-2")
	if got, ok := c.Get("bitcoin"); !ok || got != "doc-2" {
		t.Fatalf("expected refreshed value, got %q %v", got, ok)
	}
}

func TestTTLCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Hour)

	c.Put("a", "1")
	c.Put("b", "2")
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be present")
	}
	c.Put("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted as least recently used")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("expected c to be present")
	}
}

func TestTTLCacheExpiryIsPerEntry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Put("old", "1")
	clock.Advance(30 * time.Second)
	c.Put("new", "2")
	clock.Advance(45 * time.Second)

	if _, ok := c.Get("old"); ok {
		t.Fatal("expected old entry to be expired")
	}
	if _, ok := c.Get("new"); !ok {
		t.Fatal("expected new entry to be live")
	}
}

func TestTTLCachePutUntil(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	now := clock.Now()

	c.PutUntil("past", "x", now.Add(-time.Second))
	if _, ok := c.Get("past"); ok {
		t.Fatal("expired value should not be stored")
	}

	c.PutUntil("short", "y", now.Add(10*time.Second))
	clock.Advance(11 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Fatal("expected explicit expiry to be honored")
	}

	c.PutUntil("capped", "z", now.Add(time.Hour))
	clock.Advance(time.Minute)
	if _, ok := c.Get("capped"); ok {
		t.Fatal("expected expiry to be capped at the cache ttl")
	}
}

func TestTTLCacheRemoveAndPurge(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)

	c.Put("a", "1")
	c.Put("b", "2")
	c.Remove("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a to be removed")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, len=%d", c.Len())
	}
}

func TestTTLCacheCompositeKey(t *testing.T) {
	type chartKey struct {
		id       string
		currency string
		days     int
	}
	c := NewTTLCache[chartKey, int]("charts", 10, time.Hour, nil)

	c.Put(chartKey{"bitcoin", "usd", 7}, 7)
	c.Put(chartKey{"bitcoin", "usd", 30}, 30)

	if v, ok := c.Get(chartKey{"bitcoin", "usd", 7}); !ok || v != 7 {
		t.Fatalf("unexpected value for 7d key: %v %v", v, ok)
	}
	if _, ok := c.Get(chartKey{"bitcoin", "eur", 7}); ok {
		t.Fatal("expected distinct currency to miss")
	}
}
