package devices

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
type InMemoryRepo struct {
	mu      sync.RWMutex
	devices map[string]*Device
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{devices: make(map[string]*Device)}
}

func (r *InMemoryRepo) Create(ctx context.Context, device *Device) error {
	if device == nil {
		return errors.New("device cannot be nil")
	}
	if device.ID == "" {
		return errors.New("device id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *device
	r.devices[device.ID] = &copied
	return nil
}

func (r *InMemoryRepo) Get(ctx context.Context, id string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	device, ok := r.devices[id]
	if !ok {
		return nil, nil
	}
	copied := *device
	return &copied, nil
}
