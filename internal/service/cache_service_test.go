package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_TTLAndPrefix(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewMemoryCache(ctx)
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "heroes:list", []string{"a", "b"}, time.Minute))
	require.NoError(t, c.Set(ctx, "categories:list", []string{"x"}, time.Minute))

	var got []string
	found, err := c.Get(ctx, "heroes:list", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got)

	require.NoError(t, c.InvalidateByPrefix(ctx, "heroes:"))
	found, _ = c.Get(ctx, "heroes:list", &got)
	assert.False(t, found)

	c.now = func() time.Time { return now.Add(2 * time.Minute) }
	found, _ = c.Get(ctx, "categories:list", &got)
	assert.False(t, found)
}

func TestGetOrSet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := NewMemoryCache(ctx)

	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"Zugrav"}, nil
	}

	v, err := GetOrSet(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zugrav"}, v)

	v, err = GetOrSet(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zugrav"}, v)
	assert.Equal(t, 1, calls)

	_, err = GetOrSet(ctx, c, "other", time.Minute, func() ([]string, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)

	// без кэша значение просто вычисляется
	v, err = GetOrSet[[]string](ctx, nil, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, v, 1)
}
