package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHGetAll(t *testing.T) {
	ctx := context.Background()
	store := NewMockRedisClient()
	res := store.HGetAll(ctx, "test")
	val, err := res.Result()
	require.NoError(t, err)
	assert.Equal(t, 0, len(val))
}

func TestHSetDel(t *testing.T) {
	ctx := context.Background()
	store := NewMockRedisClient()
	_, err := store.HSet(ctx, "test", "f1", "v1", "f2", "v2").Result()
	require.NoError(t, err)
	_, err = store.HSet(ctx, "test", "f2", "v3").Result()
	require.NoError(t, err)
	val, err := store.HGetAll(ctx, "test").Result()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f1": "v1", "f2": "v3"}, val)
	_, err = store.Del(ctx, "test").Result()
	require.NoError(t, err)
	val, err = store.HGetAll(ctx, "test").Result()
	require.NoError(t, err)
	assert.Equal(t, 0, len(val))
}

func TestHSetOddValues(t *testing.T) {
	store := NewMockRedisClient()
	err := store.HSet(context.Background(), "test", "f1").Err()
	assert.Error(t, err)
}

func TestExpireAt(t *testing.T) {
	ctx := context.Background()
	store := NewMockRedisClient()
	ok, err := store.ExpireAt(ctx, "missing", time.Now()).Result()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.HSet(ctx, "test", "f1", "v1").Err())
	ok, err = store.ExpireAt(ctx, "test", time.Now().Add(-time.Second)).Result()
	require.NoError(t, err)
	assert.True(t, ok)
	val, err := store.HGetAll(ctx, "test").Result()
	require.NoError(t, err)
	assert.Len(t, val, 0)

	require.NoError(t, store.HSet(ctx, "test", "f1", "v1").Err())
	ok, err = store.ExpireAt(ctx, "test", time.Now().Add(time.Hour)).Result()
	require.NoError(t, err)
	assert.True(t, ok)
	val, err = store.HGetAll(ctx, "test").Result()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f1": "v1"}, val)
}

func TestHSetMap(t *testing.T) {
	ctx := context.Background()
	store := NewMockRedisClient()
	require.NoError(t, store.HSet(ctx, "test", map[string]any{"f1": "v1", "f2": 2}).Err())
	val, err := store.HGetAll(ctx, "test").Result()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f1": "v1", "f2": "2"}, val)
}
