package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-playlist-server/auth"
	"github.com/jrsteele09/go-playlist-server/auth/authstate"
	"github.com/jrsteele09/go-playlist-server/auth/sessions"
	"github.com/jrsteele09/go-playlist-server/catalog"
	"github.com/jrsteele09/go-playlist-server/devices"
	"github.com/jrsteele09/go-playlist-server/internal/config"
	"github.com/jrsteele09/go-playlist-server/internal/patterns"
	"github.com/jrsteele09/go-playlist-server/playlists"
	"github.com/jrsteele09/go-playlist-server/provider/providerfakes"
	"github.com/jrsteele09/go-playlist-server/ratelimit"
	"github.com/jrsteele09/go-playlist-server/server"
)

type fakeTextProvider struct{ text string }

func (f *fakeTextProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f.text, nil
}

type fakeCatalog struct{}

func (f *fakeCatalog) Search(ctx context.Context, accessToken, query string, limit int) ([]catalog.Track, error) {
	parts := strings.SplitN(query, " - ", 2)
	track := catalog.Track{ID: "track-" + parts[0], Title: query, Artist: parts[0]}
	return []catalog.Track{track}, nil
}

type testFixture struct {
	server *server.Server
	idp    *providerfakes.FakeIdentityProvider
}

func setupTestFixture(t *testing.T, dailyLimit int) *testFixture {
	t.Helper()

	idp := &providerfakes.FakeIdentityProvider{}
	manager, err := auth.NewManager(auth.Repos{
		Sessions: sessions.NewInMemoryRepo(),
		States:   authstate.NewInMemoryRepo(),
	}, idp)
	require.NoError(t, err)

	limiter, err := ratelimit.NewLimiter(ratelimit.NewInMemoryStore(), dailyLimit, true, []byte("test-hash-key"))
	require.NoError(t, err)

	deviceService, err := devices.NewService(devices.NewInMemoryRepo())
	require.NoError(t, err)

	generator, err := playlists.NewGenerator(
		&fakeTextProvider{text: "1. Miles Davis - So What\n2. John Coltrane - Naima"},
		&fakeCatalog{},
		playlists.NewInMemoryRepo(),
		patterns.Default(),
	)
	require.NoError(t, err)

	srv, err := server.New(config.New(), server.Dependencies{
		Auth:      manager,
		Limiter:   limiter,
		Devices:   deviceService,
		Playlists: generator,
	})
	require.NoError(t, err)

	return &testFixture{server: srv, idp: idp}
}

func (f *testFixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	recorder := httptest.NewRecorder()
	f.server.ServeHTTP(recorder, req)
	return recorder
}

func (f *testFixture) registerDevice(t *testing.T) string {
	t.Helper()

	recorder := f.do(t, http.MethodPost, "/api/devices/register", map[string]string{"platform": "ios"}, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp struct {
		DeviceID     string `json:"device_id"`
		RegisteredAt int64  `json:"registered_at"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.DeviceID)
	require.NotZero(t, resp.RegisteredAt)
	return resp.DeviceID
}

func (f *testFixture) login(t *testing.T, deviceID string) string {
	t.Helper()

	recorder := f.do(t, http.MethodPost, "/api/auth/begin", map[string]string{"device_id": deviceID, "platform": "ios"}, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var begin struct {
		AuthorizationURL string `json:"authorization_url"`
		State            string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &begin))
	require.Contains(t, begin.AuthorizationURL, begin.State)

	recorder = f.do(t, http.MethodGet, "/api/auth/callback?code=auth-code&state="+begin.State, nil, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var callback struct {
		SessionID   string `json:"session_id"`
		RedirectURL string `json:"redirect_url"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &callback))
	require.NotEmpty(t, callback.SessionID)
	require.NotEmpty(t, callback.RedirectURL)
	return callback.SessionID
}

func sessionHeaders(token, deviceID string) map[string]string {
	return map[string]string{
		"X-Session-Token": token,
		"X-Device-ID":     deviceID,
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := setupTestFixture(t, 25)

	recorder := f.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestRegisterAndAuthorizeRoundTrip(t *testing.T) {
	f := setupTestFixture(t, 25)

	deviceID := f.registerDevice(t)
	token := f.login(t, deviceID)

	recorder := f.do(t, http.MethodGet, "/api/quota/status", nil, sessionHeaders(token, deviceID))
	require.Equal(t, http.StatusOK, recorder.Code)

	var status struct {
		RequestsToday int  `json:"requests_made_today"`
		MaxPerDay     int  `json:"max_requests_per_day"`
		CanRequest    bool `json:"can_make_request"`
		Enabled       bool `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	require.Zero(t, status.RequestsToday)
	require.Equal(t, 25, status.MaxPerDay)
	require.True(t, status.CanRequest)
	require.True(t, status.Enabled)
}

func TestProtectedRouteMissingHeadersIsClientError(t *testing.T) {
	f := setupTestFixture(t, 25)

	recorder := f.do(t, http.MethodGet, "/api/quota/status", nil, nil)
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder = f.do(t, http.MethodGet, "/api/quota/status", nil, map[string]string{"X-Session-Token": "some-token"})
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestProtectedRouteInvalidSessionIsUnauthorized(t *testing.T) {
	f := setupTestFixture(t, 25)
	deviceID := f.registerDevice(t)

	recorder := f.do(t, http.MethodGet, "/api/quota/status", nil, sessionHeaders("unknown-token", deviceID))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProtectedRouteWrongDeviceIsUnauthorized(t *testing.T) {
	f := setupTestFixture(t, 25)
	deviceID := f.registerDevice(t)
	token := f.login(t, deviceID)

	recorder := f.do(t, http.MethodGet, "/api/quota/status", nil, sessionHeaders(token, "other-device"))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCallbackRejectsReusedState(t *testing.T) {
	f := setupTestFixture(t, 25)
	deviceID := f.registerDevice(t)

	recorder := f.do(t, http.MethodPost, "/api/auth/begin", map[string]string{"device_id": deviceID, "platform": "ios"}, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var begin struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &begin))

	recorder = f.do(t, http.MethodGet, "/api/auth/callback?code=auth-code&state="+begin.State, nil, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = f.do(t, http.MethodGet, "/api/auth/callback?code=auth-code&state="+begin.State, nil, nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCallbackPropagatesProviderError(t *testing.T) {
	f := setupTestFixture(t, 25)

	recorder := f.do(t, http.MethodGet, "/api/auth/callback?error=access_denied", nil, nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGeneratePlaylistAndList(t *testing.T) {
	f := setupTestFixture(t, 25)
	deviceID := f.registerDevice(t)
	token := f.login(t, deviceID)

	recorder := f.do(t, http.MethodPost, "/api/playlists/generate",
		map[string]string{"description": "late night jazz"}, sessionHeaders(token, deviceID))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var playlist struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Tracks []struct {
			Title string `json:"title"`
		} `json:"tracks"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &playlist))
	require.NotEmpty(t, playlist.ID)
	require.Equal(t, "late night jazz", playlist.Name)
	require.Len(t, playlist.Tracks, 2)

	recorder = f.do(t, http.MethodGet, "/api/playlists", nil, sessionHeaders(token, deviceID))
	require.Equal(t, http.StatusOK, recorder.Code)

	var list struct {
		Playlists []json.RawMessage `json:"playlists"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	require.Len(t, list.Playlists, 1)
}

func TestGeneratePlaylistEnforcesDailyQuota(t *testing.T) {
	f := setupTestFixture(t, 2)
	deviceID := f.registerDevice(t)
	token := f.login(t, deviceID)

	for i := 0; i < 2; i++ {
		recorder := f.do(t, http.MethodPost, "/api/playlists/generate",
			map[string]string{"description": fmt.Sprintf("playlist %d", i)}, sessionHeaders(token, deviceID))
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	recorder := f.do(t, http.MethodPost, "/api/playlists/generate",
		map[string]string{"description": "one too many"}, sessionHeaders(token, deviceID))
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)

	// Quota status reflects only the requests that actually ran
	recorder = f.do(t, http.MethodGet, "/api/quota/status", nil, sessionHeaders(token, deviceID))
	require.Equal(t, http.StatusOK, recorder.Code)

	var status struct {
		RequestsToday int  `json:"requests_made_today"`
		CanRequest    bool `json:"can_make_request"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	require.Equal(t, 2, status.RequestsToday)
	require.False(t, status.CanRequest)
}

func TestGeneratePlaylistEmptyDescriptionIsClientError(t *testing.T) {
	f := setupTestFixture(t, 25)
	deviceID := f.registerDevice(t)
	token := f.login(t, deviceID)

	recorder := f.do(t, http.MethodPost, "/api/playlists/generate",
		map[string]string{"description": ""}, sessionHeaders(token, deviceID))
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	f := setupTestFixture(t, 25)
	deviceID := f.registerDevice(t)
	token := f.login(t, deviceID)

	recorder := f.do(t, http.MethodPost, "/api/auth/refresh", nil, map[string]string{"X-Session-Token": token})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"refreshed":true}`, recorder.Body.String())

	recorder = f.do(t, http.MethodPost, "/api/auth/logout", nil, map[string]string{"X-Session-Token": token})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"success":true}`, recorder.Body.String())

	recorder = f.do(t, http.MethodGet, "/api/quota/status", nil, sessionHeaders(token, deviceID))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRefreshUnknownSessionReportsNotRefreshed(t *testing.T) {
	f := setupTestFixture(t, 25)

	recorder := f.do(t, http.MethodPost, "/api/auth/refresh", nil, map[string]string{"X-Session-Token": "unknown"})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"refreshed":false}`, recorder.Body.String())
}

func TestAdminQuotaResetRequiresToken(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "test-admin-secret")
	f := setupTestFixture(t, 25)

	recorder := f.do(t, http.MethodPost, "/api/admin/quota/reset", nil, nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = f.do(t, http.MethodPost, "/api/admin/quota/reset", nil,
		map[string]string{"Authorization": "Bearer not-a-jwt"})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAdminQuotaResetWithSignedToken(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "test-admin-secret")
	f := setupTestFixture(t, 2)
	deviceID := f.registerDevice(t)
	token := f.login(t, deviceID)

	for i := 0; i < 2; i++ {
		recorder := f.do(t, http.MethodPost, "/api/playlists/generate",
			map[string]string{"description": fmt.Sprintf("playlist %d", i)}, sessionHeaders(token, deviceID))
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	adminToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-admin-secret"))
	require.NoError(t, err)

	recorder := f.do(t, http.MethodPost, "/api/admin/quota/reset", nil,
		map[string]string{"Authorization": "Bearer " + adminToken})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"success":true}`, recorder.Body.String())

	recorder = f.do(t, http.MethodGet, "/api/quota/status", nil, sessionHeaders(token, deviceID))
	require.Equal(t, http.StatusOK, recorder.Code)

	var status struct {
		RequestsToday int `json:"requests_made_today"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	require.Zero(t, status.RequestsToday)
}

func TestAdminQuotaResetUnconfiguredIsUnavailable(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	f := setupTestFixture(t, 25)

	recorder := f.do(t, http.MethodPost, "/api/admin/quota/reset", nil,
		map[string]string{"Authorization": "Bearer anything"})
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}
