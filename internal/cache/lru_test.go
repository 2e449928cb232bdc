package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(2)
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "SELECT 1", sampleResult("q1")))
	require.NoError(t, c.Set(ctx, "SELECT 2", sampleResult("q2")))

	// Touch SELECT 1 so SELECT 2 becomes the eviction candidate.
	_, ok, err := c.Get(ctx, "SELECT 1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, "SELECT 3", sampleResult("q3")))
	assert.Equal(t, 2, c.Len())

	_, ok, _ = c.Get(ctx, "SELECT 2")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "SELECT 1")
	assert.True(t, ok)
	_, ok, _ = c.Get(ctx, "SELECT 3")
	assert.True(t, ok)
}

func TestLRUCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(10)
	require.NoError(t, err)

	want := sampleResult("q1")
	require.NoError(t, c.Set(ctx, "SELECT 1", want))
	got, ok, err := c.Get(ctx, "SELECT 1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, want, got)
}

func TestNewLRUCache_InvalidSize(t *testing.T) {
	_, err := NewLRUCache(0)
	require.Error(t, err)
}
