package authstate

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type entry struct {
	data      State
	expiresAt time.Time
}

// InMemoryRepo is a thread-safe in-memory implementation of Repo. Only
// suitable when a single process handles both the initiation and the
// callback; multi-process deployments use the redis store.
type InMemoryRepo struct {
	mu      sync.Mutex
	states  map[string]entry
	nowTime func() time.Time
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		states:  make(map[string]entry),
		nowTime: time.Now,
	}
}

func (r *InMemoryRepo) Put(ctx context.Context, state string, data *State, ttl time.Duration) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if data == nil {
		return errors.New("state data cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[state] = entry{data: *data, expiresAt: r.nowTime().Add(ttl)}
	return nil
}

func (r *InMemoryRepo) Consume(ctx context.Context, state string) (*State, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.states[state]
	if !ok {
		return nil, nil
	}
	delete(r.states, state)
	if r.nowTime().After(e.expiresAt) {
		return nil, nil
	}
	copied := e.data
	return &copied, nil
}
