package store

import (
	"context"
	"sync"
)

// MemoryStore keeps paid identities in-process. State is lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	paid map[string]struct{}
}

var _ PaidStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{paid: make(map[string]struct{})}
}

func (s *MemoryStore) IsPaid(_ context.Context, identity string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.paid[identity]
	return ok, nil
}

func (s *MemoryStore) MarkPaid(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paid[identity] = struct{}{}
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.paid)), nil
}
