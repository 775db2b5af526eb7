package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gearguessr/internal/cache"
	"gearguessr/internal/ratelimit"
)

func TestAllow_UnderLimit(t *testing.T) {
	l := ratelimit.New(cache.NewMemory(), time.Minute, 5)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("user-1"), "request %d should pass", i+1)
	}
	assert.False(t, l.Allow("user-1"), "sixth request must be rejected")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := ratelimit.New(cache.NewMemory(), time.Minute, 1)

	assert.True(t, l.Allow("user-1"))
	assert.False(t, l.Allow("user-1"))
	assert.True(t, l.Allow("user-2"), "another key has its own budget")
}

func TestAllow_WindowSlides(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := cache.NewMemoryWithClock(clock)
	l := ratelimit.New(store, time.Minute, 2, ratelimit.WithClock(clock))

	assert.True(t, l.Allow("user-1"))
	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("user-1"))
	assert.False(t, l.Allow("user-1"))

	// 31s later the first stamp has left the window, freeing one slot;
	// the second stamp (30s old) still counts.
	now = now.Add(31 * time.Second)
	assert.True(t, l.Allow("user-1"))
	assert.False(t, l.Allow("user-1"))
}

func TestAllow_FullExpiryResets(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	l := ratelimit.New(cache.NewMemoryWithClock(clock), time.Minute, 2, ratelimit.WithClock(clock))

	assert.True(t, l.Allow("user-1"))
	assert.True(t, l.Allow("user-1"))
	assert.False(t, l.Allow("user-1"))

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("user-1"))
}
