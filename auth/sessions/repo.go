package sessions

import (
	"context"
	"time"
)

// Repo defines the interface for session storage. Sessions are shared
// mutable state across worker processes, so implementations must not cache:
// every call hits the backing store.
type Repo interface {
	// Create stores a new session, superseding any existing session bound
	// to the same device (one live session per device).
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token. Returns nil, nil when absent.
	Get(ctx context.Context, token string) (*Session, error)

	// UpdateTokens rewrites the provider token pair and expiry after a
	// refresh. The rotation is a single write - no partial state.
	UpdateTokens(ctx context.Context, token, accessToken, refreshToken string, expiresAt time.Time) error

	// Touch bumps the last-used timestamp.
	Touch(ctx context.Context, token string, lastUsed time.Time) error

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, token string) error
}
