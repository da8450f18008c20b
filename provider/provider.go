package provider

import (
	"context"
	"time"
)

// TokenSet is the access/refresh pair returned by the external identity
// provider on exchange or refresh.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// UserInfo is the provider-side identity for the authenticated user.
type UserInfo struct {
	ID          string
	Email       string
	AccountType string // provider's account classification, e.g. "premium"
}

// IdentityProvider mediates the OAuth2 authorization-code handshake with
// the external music platform. Implementations must honour the context
// deadline on every outbound call.
type IdentityProvider interface {
	// Configured reports whether client credentials are present.
	Configured() bool

	// AuthCodeURL builds the provider authorization URL embedding state.
	AuthCodeURL(state string) string

	// ExchangeCode swaps an authorization code for tokens plus the
	// provider-side user identity.
	ExchangeCode(ctx context.Context, code string) (*TokenSet, *UserInfo, error)

	// Refresh obtains a new token pair using a stored refresh token.
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
}
