// ABOUTME: In-memory TTL cache for advisory responses and session state
// ABOUTME: Thread-safe cache on sync.Map with background expiry sweep

package cache

import (
	"log/slog"
	"sync"
	"time"
)

const sweepInterval = time.Minute

type entry struct {
	data      interface{}
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

type Cache struct {
	store sync.Map
	ttl   time.Duration
}

// New creates a cache whose entries expire after ttl by default.
func New(ttl time.Duration) *Cache {
	c := &Cache{ttl: ttl}
	go c.sweepLoop()
	return c
}

// Get returns the live value under key, treating expired entries as misses
// and dropping them eagerly.
func (c *Cache) Get(key string) (interface{}, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		return nil, false
	}

	e := val.(entry)
	if e.expired(time.Now()) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return nil, false
	}
	return e.data, true
}

// Set stores a value under the cache's default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.store.Store(key, entry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	})
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

// Clear removes a single key.
func (c *Cache) Clear(key string) {
	c.store.Delete(key)
}

func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.store.Range(func(key, val interface{}) bool {
			if val.(entry).expired(now) {
				c.store.Delete(key)
			}
			return true
		})
	}
}
