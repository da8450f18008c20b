package devices

import "context"

// Repo defines the interface for device registry storage.
type Repo interface {
	// Create stores a newly registered device.
	Create(ctx context.Context, device *Device) error

	// Get retrieves a device by ID. Returns nil, nil when absent.
	Get(ctx context.Context, id string) (*Device, error)
}
