package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/vietddude/headlines/internal/infra/storage"
)

// Store is an in-process storage.KeyValueStore. Contents are lost on exit.
type Store struct {
	entries map[string]string
	closed  bool
	mu      sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]string),
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, storage.ErrClosed
	}
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *Store) SetMany(ctx context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	maps.Copy(s.entries, entries)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
