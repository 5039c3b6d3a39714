// Package memory is a map-backed store driver. Nothing survives the process;
// it backs tests and RECIPEBOX_STORAGE=memory.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/store"
)

var errClosed = errors.New("memory: store closed")

type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errClosed
	}
	v, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	delete(s.values, key)
	return nil
}

func (s *Store) ApplyMigrations() error { return nil } // nothing to migrate

func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return errClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
