package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-playlist-server/auth/authstate"
	"github.com/jrsteele09/go-playlist-server/auth/sessions"
	"github.com/jrsteele09/go-playlist-server/internal/apperrors"
	"github.com/jrsteele09/go-playlist-server/provider"
)

const (
	defaultSessionLifetime = 1 * time.Hour
	defaultStateLifetime   = 10 * time.Minute
	defaultProviderTimeout = 10 * time.Second
	tokenLength            = 32 // bytes of entropy per token
)

// userIDNamespace derives a stable internal user id from the external
// provider identifier, so quota keys and playlist ownership never carry the
// raw provider id.
var userIDNamespace = uuid.MustParse("5f2de1a6-9a0f-4c57-8f64-2b1f6a3c9d70")

// Identity is the normalized result of a successful session validation.
type Identity struct {
	UserID         string // Stable internal identifier
	ExternalUserID string // Provider-side user id
	AccessToken    string // Provider access token for downstream catalog calls
}

// Repos holds the storage dependencies for the Manager.
type Repos struct {
	Sessions sessions.Repo  // Session records keyed by opaque token
	States   authstate.Repo // Single-use authorization states
}

// Manager owns the session lifecycle: it issues device-bound sessions from
// the OAuth handshake with the external identity provider, validates and
// refreshes them, and evicts expired records lazily at validation time.
type Manager struct {
	repos           Repos
	idp             provider.IdentityProvider
	sessionLifetime time.Duration
	stateLifetime   time.Duration
	providerTimeout time.Duration
	nowTime         func() time.Time // injectable for testing
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithSessionLifetime overrides the fixed session lifetime.
func WithSessionLifetime(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.sessionLifetime = d
	}
}

// WithStateLifetime overrides the authorization-state expiry.
func WithStateLifetime(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.stateLifetime = d
	}
}

// WithProviderTimeout bounds outbound identity-provider calls.
func WithProviderTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.providerTimeout = d
	}
}

// NewManager initializes a new Manager with required dependencies.
func NewManager(repos Repos, idp provider.IdentityProvider, options ...ManagerOption) (*Manager, error) {
	if repos.Sessions == nil {
		return nil, errors.New("[NewManager] Sessions repo is required")
	}
	if repos.States == nil {
		return nil, errors.New("[NewManager] States repo is required")
	}
	if idp == nil {
		return nil, errors.New("[NewManager] identity provider is required")
	}

	m := &Manager{
		repos:           repos,
		idp:             idp,
		sessionLifetime: defaultSessionLifetime,
		stateLifetime:   defaultStateLifetime,
		providerTimeout: defaultProviderTimeout,
		nowTime:         time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// BeginAuthorization starts the OAuth handshake for a device. It issues a
// single-use state bound to the device and returns the provider's
// authorization URL embedding that state.
func (m *Manager) BeginAuthorization(ctx context.Context, deviceID, platform string) (authURL, state string, err error) {
	if deviceID == "" {
		return "", "", apperrors.WithKind(apperrors.ErrValidation, errors.New("device id is required"))
	}
	if !m.idp.Configured() {
		return "", "", apperrors.WithKind(apperrors.ErrConfiguration, errors.New("identity provider credentials are unset"))
	}

	state = generateToken(tokenLength)
	data := &authstate.State{
		DeviceID:  deviceID,
		Platform:  platform,
		CreatedAt: m.nowTime(),
	}
	if err := m.repos.States.Put(ctx, state, data, m.stateLifetime); err != nil {
		return "", "", errors.Wrap(err, "[BeginAuthorization] store state")
	}

	return m.idp.AuthCodeURL(state), state, nil
}

// CompleteAuthorization consumes the callback's state, exchanges the code
// with the provider, and creates a new session for the initiating device.
// The new session supersedes any prior session bound to the same device.
func (m *Manager) CompleteAuthorization(ctx context.Context, code, state string) (string, error) {
	if code == "" || state == "" {
		return "", apperrors.WithKind(apperrors.ErrValidation, errors.New("code and state are required"))
	}

	// Consume is atomic single-use: a replayed state finds nothing.
	stateData, err := m.repos.States.Consume(ctx, state)
	if err != nil {
		return "", errors.Wrap(err, "[CompleteAuthorization] consume state")
	}
	if stateData == nil {
		return "", apperrors.WithKind(apperrors.ErrAuthentication, errors.New("state invalid, expired, or already used"))
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, m.providerTimeout)
	defer cancel()
	tokens, user, err := m.idp.ExchangeCode(exchangeCtx, code)
	if err != nil {
		return "", apperrors.WithKind(apperrors.ErrExternalService, errors.Wrap(err, "[CompleteAuthorization] code exchange"))
	}

	now := m.nowTime()
	session := &sessions.Session{
		Token:        generateToken(tokenLength),
		DeviceID:     stateData.DeviceID,
		UserID:       user.ID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		AccountType:  user.AccountType,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.sessionLifetime),
		LastUsedAt:   now,
	}
	if err := m.repos.Sessions.Create(ctx, session); err != nil {
		return "", errors.Wrap(err, "[CompleteAuthorization] create session")
	}

	return session.Token, nil
}

// Validate resolves a session token to an identity. It returns nil (not an
// error) when the session is absent, bound to a different device, or
// expired. Expired sessions are deleted as a side effect (lazy eviction)
// and successful validation bumps the last-used timestamp.
func (m *Manager) Validate(ctx context.Context, token, deviceID string) (*Identity, error) {
	if token == "" || deviceID == "" {
		return nil, nil
	}

	session, err := m.repos.Sessions.Get(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "[Validate] get session")
	}
	if session == nil {
		return nil, nil
	}
	if session.DeviceID != deviceID {
		return nil, nil
	}

	now := m.nowTime()
	if now.After(session.ExpiresAt) {
		if err := m.repos.Sessions.Delete(ctx, token); err != nil {
			log.Warn().Err(err).Msg("failed to evict expired session")
		}
		return nil, nil
	}

	if err := m.repos.Sessions.Touch(ctx, token, now); err != nil {
		// The validation itself succeeded; a failed bump is not worth
		// rejecting the request over.
		log.Warn().Err(err).Msg("failed to bump session last-used")
	}

	return &Identity{
		UserID:         InternalUserID(session.UserID),
		ExternalUserID: session.UserID,
		AccessToken:    session.AccessToken,
	}, nil
}

// Refresh rotates the session's provider tokens using the stored refresh
// token and extends the expiry by the session lifetime. A provider
// rejection returns false without an error - the caller must
// re-authenticate. No partial rotation: the record is rewritten in one
// store call or not at all.
func (m *Manager) Refresh(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	session, err := m.repos.Sessions.Get(ctx, token)
	if err != nil {
		return false, errors.Wrap(err, "[Refresh] get session")
	}
	if session == nil {
		return false, nil
	}

	refreshCtx, cancel := context.WithTimeout(ctx, m.providerTimeout)
	defer cancel()
	tokens, err := m.idp.Refresh(refreshCtx, session.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("provider refused token refresh")
		return false, nil
	}

	refreshToken := tokens.RefreshToken
	if refreshToken == "" {
		// Some providers only rotate the access token.
		refreshToken = session.RefreshToken
	}
	expiresAt := m.nowTime().Add(m.sessionLifetime)
	if err := m.repos.Sessions.UpdateTokens(ctx, token, tokens.AccessToken, refreshToken, expiresAt); err != nil {
		return false, errors.Wrap(err, "[Refresh] update tokens")
	}

	return true, nil
}

// Invalidate deletes the session. Idempotent: invalidating an unknown
// token still reports success.
func (m *Manager) Invalidate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return true, nil
	}
	if err := m.repos.Sessions.Delete(ctx, token); err != nil {
		return false, errors.Wrap(err, "[Invalidate] delete session")
	}
	return true, nil
}

// InternalUserID derives the stable internal identifier for an external
// provider user id.
func InternalUserID(externalUserID string) string {
	return uuid.NewSHA1(userIDNamespace, []byte(externalUserID)).String()
}

// generateToken creates a random base64url string with length bytes of
// entropy.
func generateToken(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
