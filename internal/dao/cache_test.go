package dao

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResourceCache(t *testing.T) {
	now := time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC)
	c := NewResourceCache(5 * time.Second)
	c.now = func() time.Time { return now }

	c.Set("users:page=1", 1)
	c.Set("users:page=2", 2)
	c.Set("roles:page=1", 3)

	v, ok := c.Get("users:page=1")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(6 * time.Second)
	_, ok = c.Get("users:page=1")
	assert.False(t, ok)
	assert.Equal(t, 3, c.Len())

	c.InvalidatePrefix("users:")
	assert.Equal(t, 1, c.Len())
	c.Invalidate("roles:page=1")
	assert.Equal(t, 0, c.Len())

	c.Set("a", 1)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestResourceCacheDisabled(t *testing.T) {
	c := NewResourceCache(0)
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)

	var nilCache *ResourceCache
	nilCache.Set("a", 1)
	nilCache.InvalidatePrefix("a")
	_, ok = nilCache.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, nilCache.Len())
}
