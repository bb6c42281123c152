package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/grocery-backend/internal/product"
)

type countingSource struct {
	calls int
	err   error
	items []product.Product
}

func (c *countingSource) List(context.Context) ([]product.Product, error) {
	c.calls++
	return c.items, c.err
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestProductSnapshot_HitAfterMiss(t *testing.T) {
	_, client := setupTestRedis(t)
	src := &countingSource{items: product.SampleProducts(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))}
	snap := NewProductSnapshot(client, src)
	ctx := context.Background()

	first, err := snap.List(ctx)
	require.NoError(t, err)
	second, err := snap.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].Name, second[0].Name)
	assert.True(t, first[0].Price.Equal(second[0].Price))
	assert.Equal(t, int64(1), snap.Stats()["hits"])
}

func TestProductSnapshot_TTLAndInvalidate(t *testing.T) {
	mr, client := setupTestRedis(t)
	src := &countingSource{items: []product.Product{{ID: 1, Name: "Kale", IsActive: true}}}
	snap := NewProductSnapshot(client, src, WithTTL(time.Minute), WithPrefix("test:"))
	ctx := context.Background()

	_, err := snap.List(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:products"))

	mr.FastForward(2 * time.Minute)
	_, err = snap.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)

	require.NoError(t, snap.Invalidate(ctx))
	assert.False(t, mr.Exists("test:products"))
	_, err = snap.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls)
}

func TestProductSnapshot_DegradesWhenRedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	src := &countingSource{items: []product.Product{{ID: 1, Name: "Kale"}}}
	snap := NewProductSnapshot(client, src)
	mr.Close()

	ps, err := snap.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, ps, 1)
}

func TestProductSnapshot_CorruptEntryIsAMiss(t *testing.T) {
	mr, client := setupTestRedis(t)
	require.NoError(t, mr.Set(DefaultPrefix+"products", "{not json"))
	src := &countingSource{items: []product.Product{{ID: 2, Name: "Leek"}}}

	ps, err := NewProductSnapshot(client, src).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Leek", ps[0].Name)
	assert.Equal(t, 1, src.calls)
}

func TestProductSnapshot_SourceErrorNotCached(t *testing.T) {
	mr, client := setupTestRedis(t)
	src := &countingSource{err: errors.New("db down")}

	_, err := NewProductSnapshot(client, src).List(context.Background())
	assert.Error(t, err)
	assert.False(t, mr.Exists(DefaultPrefix+"products"))
}
