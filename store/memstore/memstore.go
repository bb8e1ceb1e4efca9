// Package memstore provides an in-memory store.Store, for tests and for
// callers that want setting semantics without durability.
package memstore

import (
	"sync"

	"github.com/prefkit/prefkit/store"
)

// Store keeps all entries in a map. Byte slices are copied on both write and
// read so callers never alias store memory.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{entries: make(map[string][]byte)}
}

func (s *Store) Has(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok, nil
}

func (s *Store) Read(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.entries[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *Store) Write(key string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.mu.Lock()
	s.entries[key] = cp
	s.mu.Unlock()
	return nil
}

func (s *Store) Remove(key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Flush is a no-op: there is nothing behind the map to sync.
func (s *Store) Flush() error { return nil }

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
