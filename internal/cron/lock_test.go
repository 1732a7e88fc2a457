package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLockStore struct {
	data map[string]string
}

func (m *memoryLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memoryLockStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memoryLockStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryLockStore) LockKey(name string) string { return "dh:lock:" + name }

func TestRedisLockExclusive(t *testing.T) {
	ctx := context.Background()
	store := &memoryLockStore{data: map[string]string{}}

	first, err := NewRedisLock(store, "", 0)
	require.NoError(t, err)
	second, err := NewRedisLock(store, "", 0)
	require.NoError(t, err)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, store.data, "dh:lock:cron-worker")

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// A loser releasing must not drop the winner's key.
	require.NoError(t, second.Release(ctx))
	assert.Contains(t, store.data, "dh:lock:cron-worker")

	require.NoError(t, first.Release(ctx))
	assert.Empty(t, store.data)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockReleaseAfterExpiry(t *testing.T) {
	ctx := context.Background()
	store := &memoryLockStore{data: map[string]string{}}
	lock, err := NewRedisLock(store, "inventory-reconcile", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	delete(store.data, "dh:lock:inventory-reconcile")
	assert.NoError(t, lock.Release(ctx))
}

func TestNewRedisLockRequiresClient(t *testing.T) {
	_, err := NewRedisLock(nil, "x", time.Second)
	assert.Error(t, err)
}
