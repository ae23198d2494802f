// Package cache holds short-lived computed results, such as billing
// summaries, in memory or in Redis.
package cache

import (
	"context"
	"time"
)

// Store keeps opaque values under string keys until their TTL runs out
type Store interface {
	// Get returns the value stored under key. ok is false on a miss or an
	// expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// NopStore never holds anything
type NopStore struct{}

// Get always misses
func (NopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value
func (NopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Close does nothing
func (NopStore) Close() error { return nil }

var (
	_ Store = NopStore{}
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
