// Package memory provides an in-process KeyValueStore. It backs
// STORAGE_BACKEND=memory and is the default double in unit tests.
package memory

import (
	"context"
	"sync"

	"github.com/imgshare/gallery-client/internal/ports"
)

var _ ports.KeyValueStore = (*Store)(nil)

// Store is a concurrency-safe map-backed KeyValueStore.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// NewStoreWith returns a store seeded with values.
func NewStoreWith(values map[string]string) *Store {
	s := NewStore()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	s.writes++
	return nil
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

// Writes returns the number of Set and Delete calls observed.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
