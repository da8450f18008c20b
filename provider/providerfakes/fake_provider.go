package providerfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-playlist-server/provider"
)

var _ provider.IdentityProvider = (*FakeIdentityProvider)(nil)

// FakeIdentityProvider is a scriptable in-memory identity provider for
// tests. Zero value behaves like a configured provider that accepts every
// code and refresh token.
type FakeIdentityProvider struct {
	mu sync.Mutex

	NotConfigured bool
	ExchangeErr   error
	RefreshErr    error

	Tokens *provider.TokenSet
	User   *provider.UserInfo

	ExchangedCodes    []string
	RefreshedTokens   []string
	AuthCodeURLStates []string
}

func (f *FakeIdentityProvider) Configured() bool {
	return !f.NotConfigured
}

func (f *FakeIdentityProvider) AuthCodeURL(state string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AuthCodeURLStates = append(f.AuthCodeURLStates, state)
	return "https://provider.example/authorize?state=" + state
}

func (f *FakeIdentityProvider) ExchangeCode(ctx context.Context, code string) (*provider.TokenSet, *provider.UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ExchangedCodes = append(f.ExchangedCodes, code)
	if f.ExchangeErr != nil {
		return nil, nil, f.ExchangeErr
	}
	return f.tokens(), f.user(), nil
}

func (f *FakeIdentityProvider) Refresh(ctx context.Context, refreshToken string) (*provider.TokenSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RefreshedTokens = append(f.RefreshedTokens, refreshToken)
	if f.RefreshErr != nil {
		return nil, f.RefreshErr
	}
	return f.tokens(), nil
}

func (f *FakeIdentityProvider) tokens() *provider.TokenSet {
	if f.Tokens != nil {
		copied := *f.Tokens
		return &copied
	}
	return &provider.TokenSet{AccessToken: "fake-access", RefreshToken: "fake-refresh"}
}

func (f *FakeIdentityProvider) user() *provider.UserInfo {
	if f.User != nil {
		copied := *f.User
		return &copied
	}
	return &provider.UserInfo{ID: "fake-user", Email: "fake@example.com", AccountType: "premium"}
}
