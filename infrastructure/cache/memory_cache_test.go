package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	require.NoError(t, c.Set(ctx, "k", []byte("value")))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), got)
}

func TestMemoryCache_MissingKey(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	_, ok, err := c.Get(context.Background(), "absent")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	require.NoError(t, c.Set(ctx, "k", []byte("value")))

	require.NoError(t, c.Delete(ctx, "k"))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10 * time.Millisecond)
	require.NoError(t, c.Set(ctx, "k", []byte("value")))

	time.Sleep(30 * time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_OverwriteRefreshesValue(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	require.NoError(t, c.Set(ctx, "k", []byte("old")))
	require.NoError(t, c.Set(ctx, "k", []byte("new")))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}
