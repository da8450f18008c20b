package authstate

import (
	"context"
	"time"
)

// State binds an in-flight OAuth handshake to the device that initiated
// it, so the provider callback can be matched to its originator.
type State struct {
	DeviceID  string    `json:"device_id"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

// Repo stores authorization states. States are strictly single-use: Consume
// atomically retrieves and removes, so a replayed state sees nothing.
type Repo interface {
	// Put stores a state value with a TTL.
	Put(ctx context.Context, state string, data *State, ttl time.Duration) error

	// Consume atomically retrieves and deletes a state. Returns nil, nil
	// when the state is absent, expired, or already used.
	Consume(ctx context.Context, state string) (*State, error)
}
