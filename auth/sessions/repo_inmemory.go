package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of Repo, suitable
// for tests and single-process deployments.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*Session // token -> session
	byDevice map[string]string   // deviceID -> token
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]*Session),
		byDevice: make(map[string]string),
	}
}

func (r *InMemoryRepo) Create(ctx context.Context, session *Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.Token == "" {
		return errors.New("session token cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.byDevice[session.DeviceID]; ok {
		delete(r.sessions, prior)
	}
	copied := *session
	r.sessions[session.Token] = &copied
	r.byDevice[session.DeviceID] = session.Token
	return nil
}

func (r *InMemoryRepo) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *InMemoryRepo) UpdateTokens(ctx context.Context, token, accessToken, refreshToken string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok {
		return errors.New("session not found")
	}
	session.AccessToken = accessToken
	session.RefreshToken = refreshToken
	session.ExpiresAt = expiresAt
	return nil
}

func (r *InMemoryRepo) Touch(ctx context.Context, token string, lastUsed time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok {
		return errors.New("session not found")
	}
	session.LastUsedAt = lastUsed
	return nil
}

func (r *InMemoryRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok {
		return nil
	}
	if r.byDevice[session.DeviceID] == token {
		delete(r.byDevice, session.DeviceID)
	}
	delete(r.sessions, token)
	return nil
}
