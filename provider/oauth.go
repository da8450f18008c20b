package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-playlist-server/internal/config"
)

const maxUserInfoBody = 1 << 20

var _ IdentityProvider = (*OAuth2Provider)(nil)

// OAuth2Provider talks to a plain OAuth2 identity provider with explicit
// authorize/token/userinfo endpoints (the music-platform default).
type OAuth2Provider struct {
	conf        *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

func New(cfg config.ProviderConfig) *OAuth2Provider {
	return &OAuth2Provider{
		conf: &oauth2.Config{
			ClientID:     cfg.GetProviderClientID(),
			ClientSecret: cfg.GetProviderClientSecret(),
			RedirectURL:  cfg.GetProviderRedirectURL(),
			Scopes:       cfg.GetProviderScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.GetProviderAuthURL(),
				TokenURL: cfg.GetProviderTokenURL(),
			},
		},
		userInfoURL: cfg.GetProviderUserInfoURL(),
		httpClient:  &http.Client{Timeout: cfg.GetProviderTimeout()},
	}
}

func (p *OAuth2Provider) Configured() bool {
	return p.conf.ClientID != "" && p.conf.ClientSecret != ""
}

func (p *OAuth2Provider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *OAuth2Provider) ExchangeCode(ctx context.Context, code string) (*TokenSet, *UserInfo, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[ExchangeCode] code exchange")
	}

	user, err := p.fetchUserInfo(ctx, tok.AccessToken)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[ExchangeCode] userinfo")
	}

	return tokenSet(tok), user, nil
}

func (p *OAuth2Provider) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	ts := p.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := ts.Token()
	if err != nil {
		return nil, errors.Wrap(err, "[Refresh] token refresh")
	}
	return tokenSet(tok), nil
}

func (p *OAuth2Provider) fetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build userinfo request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "userinfo request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUserInfoBody))
	if err != nil {
		return nil, errors.Wrap(err, "read userinfo response")
	}
	if resp.StatusCode >= 300 {
		return nil, errors.Errorf("userinfo failed: status=%d", resp.StatusCode)
	}

	var raw struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Product string `json:"product"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "decode userinfo response")
	}
	if raw.ID == "" {
		return nil, errors.New("userinfo response missing user id")
	}

	return &UserInfo{ID: raw.ID, Email: raw.Email, AccountType: raw.Product}, nil
}

func tokenSet(tok *oauth2.Token) *TokenSet {
	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(time.Hour)
	}
	return &TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       expiry,
	}
}
