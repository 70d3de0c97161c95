package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryCacheSetGetDel(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var got payload
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetJSON(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))
	hit, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	require.NoError(t, c.Del(ctx, "k", "missing"))
	hit, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetJSON(ctx, "k", payload{Name: "a"}, time.Minute))
	now = now.Add(59 * time.Second)
	var got payload
	hit, _ := c.GetJSON(ctx, "k", &got)
	assert.True(t, hit)

	now = now.Add(time.Second)
	hit, _ = c.GetJSON(ctx, "k", &got)
	assert.False(t, hit)
}

func TestMemoryCacheCorruptIsMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.SetJSON(ctx, "k", "not an object", time.Minute))

	var got payload
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	_, present := c.entries["k"]
	assert.False(t, present)
}
