package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultCleanupInterval is how often a MemoryStore drops expired entries
const DefaultCleanupInterval = 5 * time.Minute

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore implements Store with a map. It suits single-instance
// deployments and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryStore creates a store and starts its cleanup goroutine
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithCleanup(DefaultCleanupInterval)
}

// NewMemoryStoreWithCleanup creates a store that drops expired entries
// every interval
func NewMemoryStoreWithCleanup(interval time.Duration) *MemoryStore {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	store := &MemoryStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop(interval)

	return store
}

// Get returns a copy of the live value under key
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists || !time.Now().Before(e.expiresAt) {
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set stores a copy of value. A non-positive ttl stores nothing.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: stored, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired entries
func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Size returns the number of entries, expired ones included
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
