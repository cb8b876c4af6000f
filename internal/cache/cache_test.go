package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

func exercise(t *testing.T, c Cache) {
	ctx := context.Background()

	var got payload
	ok, err := c.Get(ctx, "stats:missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "stats:1", payload{Orders: 2, Revenue: "90"}, time.Minute))
	ok, err = c.Get(ctx, "stats:1", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload{Orders: 2, Revenue: "90"}, got)

	require.NoError(t, c.Delete(ctx, "stats:1"))
	ok, _ = c.Get(ctx, "stats:1", &got)
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(context.Background(), "k", 1, time.Second))
	var v int
	ok, _ := m.Get(context.Background(), "k", &v)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	ok, _ = m.Get(context.Background(), "k", &v)
	assert.False(t, ok)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	r, err := NewRedis(addr, "test:", nil)
	require.NoError(t, err)
	defer r.Close()

	exercise(t, r)
}
