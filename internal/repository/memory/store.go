package memory

import (
	"context"
	"sync"

	apperrors "github.com/utafrali/catalog-widget/pkg/errors"
)

// StateStore is a process-local repository.StateStore. State is lost when the
// process exits.
type StateStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStateStore creates an empty in-memory store.
func NewStateStore() *StateStore {
	return &StateStore{data: make(map[string][]byte)}
}

func (s *StateStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, apperrors.NotFound("state", key)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *StateStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

func (s *StateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Ping always succeeds.
func (s *StateStore) Ping(context.Context) error {
	return nil
}
