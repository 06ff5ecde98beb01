// Package cache holds the in-process LRU+TTL cache and the optional Redis connection.
package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a size-bounded LRU whose entries expire a fixed TTL after insertion.
// Expired entries are dropped lazily on read and behave exactly like misses.
type TTLCache[K comparable, V any] struct {
	name   string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu  sync.Mutex
	lru *expirable.LRU[K, entry[V]]
}

// NewTTLCache creates a cache holding at most size entries, each living ttl.
func NewTTLCache[K comparable, V any](name string, size int, ttl time.Duration, logger *zap.Logger) *TTLCache[K, V] {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &TTLCache[K, V]{
		name:   name,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
	c.lru = expirable.NewLRU[K, entry[V]](size, func(key K, _ entry[V]) {
		CacheRemovalsTotal.WithLabelValues(name).Inc()
	}, ttl)
	return c
}

// WithClock replaces the time source used for expiry checks.
func (c *TTLCache[K, V]) WithClock(now func() time.Time) *TTLCache[K, V] {
	c.now = now
	return c
}

// Get returns the stored value if present and not expired. A hit marks the key most recently used.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if ok && c.now().Before(e.expiresAt) {
		CacheHitsTotal.WithLabelValues(c.name).Inc()
		return e.value, true
	}
	if ok {
		c.lru.Remove(key)
		c.logger.Debug("cache-expired", zap.String("cache", c.name), zap.Any("key", key))
	}
	CacheMissesTotal.WithLabelValues(c.name).Inc()
	var zero V
	return zero, false
}

// Put stores value under key for the cache TTL, evicting the least recently used entry when full.
func (c *TTLCache[K, V]) Put(key K, value V) {
	c.PutUntil(key, value, c.now().Add(c.ttl))
}

// PutUntil stores value with an explicit expiry, capped at the cache TTL. Already expired values are ignored.
func (c *TTLCache[K, V]) PutUntil(key K, value V, expiresAt time.Time) {
	now := c.now()
	if !expiresAt.After(now) {
		return
	}
	if limit := now.Add(c.ttl); expiresAt.After(limit) {
		expiresAt = limit
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, entry[V]{value: value, expiresAt: expiresAt})
	CacheSetsTotal.WithLabelValues(c.name).Inc()
}

// Remove drops key if present.
func (c *TTLCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// Len reports the number of stored entries, including ones not yet swept after expiry.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge empties the cache.
func (c *TTLCache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	c.logger.Info("cache-cleared", zap.String("cache", c.name))
}

// TTL is the lifetime given to entries stored with Put.
func (c *TTLCache[K, V]) TTL() time.Duration {
	return c.ttl
}
