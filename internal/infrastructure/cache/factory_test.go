package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/billadmin/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func createTestFactory(cfg config.CacheConfig, dialErr error) (*StoreFactory, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	f := NewStoreFactory(cfg, WithLogger(zap.New(core)))
	f.dial = func(config.RedisConfig) (Store, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return NewMemoryStore(), nil
	}
	return f, logs
}

func TestStoreFactory_CreateStore(t *testing.T) {
	refused := errors.New("connection refused")

	t.Run("none disables caching", func(t *testing.T) {
		f, _ := createTestFactory(config.CacheConfig{Backend: BackendNone}, nil)
		store, err := f.CreateStore()
		require.NoError(t, err)
		assert.IsType(t, NopStore{}, store)
	})

	t.Run("memory backend", func(t *testing.T) {
		f, _ := createTestFactory(config.CacheConfig{Backend: BackendMemory}, nil)
		store, err := f.CreateStore()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("redis backend when reachable", func(t *testing.T) {
		f, logs := createTestFactory(config.CacheConfig{Backend: BackendRedis}, nil)
		store, err := f.CreateStore()
		require.NoError(t, err)
		defer store.Close()
		assert.Equal(t, 1, logs.FilterMessage("Using Redis summary cache").Len())
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		f, logs := createTestFactory(config.CacheConfig{Backend: BackendRedis, FallbackToMemory: true}, refused)
		store, err := f.CreateStore()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &MemoryStore{}, store)
		assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		f, _ := createTestFactory(config.CacheConfig{Backend: BackendRedis}, refused)
		_, err := f.CreateStore()
		require.Error(t, err)
		assert.ErrorIs(t, err, refused)
	})

	t.Run("unknown backend fails", func(t *testing.T) {
		f, _ := createTestFactory(config.CacheConfig{Backend: "memcached"}, nil)
		_, err := f.CreateStore()
		assert.Error(t, err)
	})
}

func TestRedisStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisStoreWithClient(client, "")
	defer store.Close()

	ctx := context.Background()

	_, ok, err := store.Get(ctx, "summary")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "failed to read cache key summary")

	err = store.Set(ctx, "summary", []byte("x"), time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write cache key summary")

	assert.NoError(t, store.Set(ctx, "summary", []byte("x"), 0), "a zero ttl never reaches Redis")
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := NewRedisStore(config.RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
