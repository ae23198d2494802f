package shared

import (
	"fmt"
	"slices"
	"sync"
)

// Record is implemented by every listable domain record
type Record interface {
	GetID() string
	GetCreatedAt() Date
}

// Store holds the unfiltered collection of one record type as supplied by
// an external data source. Reads always hand out copies; callers never
// mutate the canonical slice.
type Store[T Record] struct {
	mu      sync.RWMutex
	records []T
}

// NewStore creates an empty store
func NewStore[T Record]() *Store[T] {
	return &Store[T]{}
}

// Replace swaps the whole collection. Ids must be non-empty and unique;
// on error the previous snapshot is kept.
func (s *Store[T]) Replace(records []T) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		id := r.GetID()
		if id == "" {
			return NewMalformedRecordError(fmt.Sprintf("#%d", i), "id", "id is required")
		}
		if _, dup := seen[id]; dup {
			return NewDomainError(CodeAlreadyExists, fmt.Sprintf("duplicate record id %q", id))
		}
		seen[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = slices.Clone(records)
	return nil
}

// Snapshot returns a copy of the current collection in source order
func (s *Store[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Len returns the number of records held
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
