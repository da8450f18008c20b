package provider

import (
	"context"
	"net/http"
	"slices"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-playlist-server/internal/config"
)

var _ IdentityProvider = (*OIDCProvider)(nil)

// OIDCProvider is the discovery-based variant: endpoints come from the
// issuer's well-known document and the user identity from a verified
// id_token. Used for identity providers that speak OIDC rather than the
// music platform's bespoke OAuth2.
type OIDCProvider struct {
	oidcProvider *oidc.Provider
	verifier     *oidc.IDTokenVerifier
	conf         *oauth2.Config
	httpClient   *http.Client
}

func NewOIDC(ctx context.Context, cfg config.ProviderConfig) (*OIDCProvider, error) {
	httpClient := &http.Client{Timeout: cfg.GetProviderTimeout()}
	ctx = oidc.ClientContext(ctx, httpClient)

	oidcProvider, err := oidc.NewProvider(ctx, cfg.GetProviderOIDCIssuer())
	if err != nil {
		return nil, errors.Wrap(err, "[NewOIDC] provider discovery")
	}

	scopes := cfg.GetProviderScopes()
	if !slices.Contains(scopes, oidc.ScopeOpenID) {
		scopes = append([]string{oidc.ScopeOpenID}, scopes...)
	}

	return &OIDCProvider{
		oidcProvider: oidcProvider,
		verifier:     oidcProvider.Verifier(&oidc.Config{ClientID: cfg.GetProviderClientID()}),
		conf: &oauth2.Config{
			ClientID:     cfg.GetProviderClientID(),
			ClientSecret: cfg.GetProviderClientSecret(),
			RedirectURL:  cfg.GetProviderRedirectURL(),
			Scopes:       scopes,
			Endpoint:     oidcProvider.Endpoint(),
		},
		httpClient: httpClient,
	}, nil
}

func (p *OIDCProvider) Configured() bool {
	return p.conf.ClientID != "" && p.conf.ClientSecret != ""
}

func (p *OIDCProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *OIDCProvider) ExchangeCode(ctx context.Context, code string) (*TokenSet, *UserInfo, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[ExchangeCode] code exchange")
	}

	user, err := p.identityFromToken(ctx, tok)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[ExchangeCode] identity")
	}

	return tokenSet(tok), user, nil
}

func (p *OIDCProvider) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	ts := p.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := ts.Token()
	if err != nil {
		return nil, errors.Wrap(err, "[Refresh] token refresh")
	}
	return tokenSet(tok), nil
}

// identityFromToken prefers the id_token; providers that omit one fall
// back to the userinfo endpoint.
func (p *OIDCProvider) identityFromToken(ctx context.Context, tok *oauth2.Token) (*UserInfo, error) {
	if rawIDToken, ok := tok.Extra("id_token").(string); ok && rawIDToken != "" {
		idToken, err := p.verifier.Verify(ctx, rawIDToken)
		if err != nil {
			return nil, errors.Wrap(err, "verify id_token")
		}
		var claims struct {
			Email string `json:"email"`
		}
		if err := idToken.Claims(&claims); err != nil {
			return nil, errors.Wrap(err, "parse id_token claims")
		}
		return &UserInfo{ID: idToken.Subject, Email: claims.Email}, nil
	}

	info, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return nil, errors.Wrap(err, "userinfo")
	}
	return &UserInfo{ID: info.Subject, Email: info.Email}, nil
}
