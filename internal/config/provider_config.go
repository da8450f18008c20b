package config

import (
	"strings"
	"time"
)

// ProviderConfig describes the external music-platform identity provider.
// Either the explicit endpoint URLs are set, or an OIDC issuer is set and
// the endpoints come from discovery.
type ProviderConfig interface {
	GetProviderClientID() string
	GetProviderClientSecret() string
	GetProviderAuthURL() string
	GetProviderTokenURL() string
	GetProviderUserInfoURL() string
	GetProviderOIDCIssuer() string
	GetProviderScopes() []string
	GetProviderRedirectURL() string
	GetProviderTimeout() time.Duration
}

type Provider struct{}

var _ ProviderConfig = Provider{}

func (Provider) GetProviderClientID() string {
	return GetEnv("PROVIDER_CLIENT_ID", "")
}

func (Provider) GetProviderClientSecret() string {
	return GetEnv("PROVIDER_CLIENT_SECRET", "")
}

func (Provider) GetProviderAuthURL() string {
	return GetEnv("PROVIDER_AUTH_URL", "https://accounts.spotify.com/authorize")
}

func (Provider) GetProviderTokenURL() string {
	return GetEnv("PROVIDER_TOKEN_URL", "https://accounts.spotify.com/api/token")
}

func (Provider) GetProviderUserInfoURL() string {
	return GetEnv("PROVIDER_USERINFO_URL", "https://api.spotify.com/v1/me")
}

func (Provider) GetProviderOIDCIssuer() string {
	return GetEnv("PROVIDER_OIDC_ISSUER", "")
}

func (Provider) GetProviderScopes() []string {
	scopes := GetEnv("PROVIDER_SCOPES", "user-read-private user-read-email playlist-modify-private")
	return strings.Fields(scopes)
}

func (p Provider) GetProviderRedirectURL() string {
	return GetEnv("PROVIDER_REDIRECT_URL", EnvVars{}.GetBaseURL()+"/api/auth/callback")
}

// GetProviderTimeout bounds every outbound call to the identity provider.
// A slow provider surfaces as an external-service error, never as a hang.
func (Provider) GetProviderTimeout() time.Duration {
	return 10 * time.Second
}
