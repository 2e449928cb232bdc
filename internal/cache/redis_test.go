package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duck-insights/internal/domain"
)

func TestDecodeResult_PreservesIntegers(t *testing.T) {
	raw, err := json.Marshal(sampleResult("q1"))
	require.NoError(t, err)

	got, err := decodeResult(raw)
	require.NoError(t, err)
	assert.Equal(t, "q1", got.QueryID)
	assert.Equal(t, 1, got.RowCount)
	assert.Equal(t, json.Number("1"), got.Data[0]["answer"])
}

func TestDecodeResult_Corrupt(t *testing.T) {
	_, err := decodeResult([]byte("{not json"))
	require.Error(t, err)
}

// TestRedisCache_RoundTrip runs against a live Redis when REDIS_ADDR is set.
func TestRedisCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{
		Addr:     addr,
		PoolSize: 4,
		Prefix:   "nlq:test:" + domain.NewID() + ":",
		TTL:      time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.Equal(t, 4, c.client.Options().PoolSize)

	_, ok, err := c.Get(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "SELECT 1", sampleResult("q1")))

	got, ok, err := c.Get(ctx, "SELECT 1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "q1", got.QueryID)

	_, ok, err = c.Get(ctx, "select 1")
	require.NoError(t, err)
	assert.False(t, ok)
}
