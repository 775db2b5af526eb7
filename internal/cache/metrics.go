package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type instrumented struct {
	inner  Cache
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewInstrumented decorates a Cache with hit/miss counters.
func NewInstrumented(inner Cache, hits, misses prometheus.Counter) Cache {
	return &instrumented{inner: inner, hits: hits, misses: misses}
}

func (c *instrumented) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
	return val, ok
}

func (c *instrumented) Set(key string, value []byte, ttl time.Duration) error {
	return c.inner.Set(key, value, ttl)
}

func (c *instrumented) Del(key string) {
	c.inner.Del(key)
}
