// Package cache is a small TTL cache abstraction backing the per-instance
// state: puzzle session tracking, rate-limit counters, and the
// leaderboard snapshot. Backings are injectable; none of them survive a
// restart, which is an accepted tradeoff for this state.
package cache

import (
	"sync"
	"time"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
)

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Del(key string)
}

type freecacheBacked struct {
	cache *freecache.Cache
}

// NewFreecache creates a Cache backed by a fixed-size freecache segment.
func NewFreecache(sizeMB int) Cache {
	if sizeMB <= 0 {
		sizeMB = 16
	}
	return &freecacheBacked{cache: freecache.NewCache(sizeMB * 1024 * 1024)}
}

func (c *freecacheBacked) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *freecacheBacked) Set(key string, value []byte, ttl time.Duration) error {
	return c.cache.Set([]byte(key), value, int(ttl.Seconds()))
}

func (c *freecacheBacked) Del(key string) {
	c.cache.Del([]byte(key))
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type memoryBacked struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an unbounded in-process Cache. Intended for tests;
// expiry is checked lazily on Get.
func NewMemory() Cache {
	return &memoryBacked{entries: make(map[string]memoryEntry), now: time.Now}
}

// NewMemoryWithClock is NewMemory with an injectable clock for expiry tests.
func NewMemoryWithClock(now func() time.Time) Cache {
	return &memoryBacked{entries: make(map[string]memoryEntry), now: now}
}

func (c *memoryBacked) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *memoryBacked) Set(key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *memoryBacked) Del(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// GetJSON reads and decodes a cached JSON value into out.
func GetJSON(c Cache, key string, out any) bool {
	raw, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// SetJSON encodes v as JSON and stores it under key.
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, raw, ttl)
}
