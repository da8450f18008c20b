package ratelimit

import (
	"context"
	"sync"
)

var _ Store = (*InMemoryStore)(nil)

// InMemoryStore is a thread-safe in-memory quota store for tests and
// single-process deployments. The mutex makes each increment atomic.
type InMemoryStore struct {
	mu     sync.RWMutex
	counts map[string]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{counts: make(map[string]int)}
}

func (s *InMemoryStore) Increment(ctx context.Context, hash, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[hash+"|"+date]++
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, hash, date string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[hash+"|"+date], nil
}

func (s *InMemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = make(map[string]int)
	return nil
}
