package server

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-playlist-server/internal/apperrors"
)

type beginAuthRequest struct {
	DeviceID string `json:"device_id"`
	Platform string `json:"platform"`
}

type beginAuthResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
	DeviceID         string `json:"device_id"`
}

// BeginAuthHandler starts the OAuth handshake for a registered device.
func (s *Server) BeginAuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req beginAuthRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		authURL, state, err := s.deps.Auth.BeginAuthorization(r.Context(), req.DeviceID, req.Platform)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, beginAuthResponse{
			AuthorizationURL: authURL,
			State:            state,
			DeviceID:         req.DeviceID,
		})
	}
}

type callbackResponse struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

// AuthCallbackHandler completes the handshake when the identity provider
// redirects back with a code and the state issued by BeginAuthHandler.
func (s *Server) AuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if providerError := query.Get("error"); providerError != "" {
			writeError(w, apperrors.WithKind(apperrors.ErrAuthentication, errors.Errorf("provider rejected authorization: %s", providerError)))
			return
		}

		code := query.Get("code")
		state := query.Get("state")
		if code == "" || state == "" {
			writeError(w, apperrors.WithKind(apperrors.ErrValidation, errors.New("code and state are required")))
			return
		}

		sessionToken, err := s.deps.Auth.CompleteAuthorization(r.Context(), code, state)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, callbackResponse{
			SessionID:   sessionToken,
			RedirectURL: s.config.GetBaseURL() + RouteAuthComplete,
		})
	}
}

type refreshResponse struct {
	Refreshed bool `json:"refreshed"`
}

// RefreshHandler rotates the session's provider tokens. A provider
// rejection is not an error; the client is told to re-authenticate.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(HeaderSessionToken)
		if token == "" {
			writeError(w, apperrors.WithKind(apperrors.ErrValidation, errors.New("session token header is required")))
			return
		}

		refreshed, err := s.deps.Auth.Refresh(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, refreshResponse{Refreshed: refreshed})
	}
}

type logoutResponse struct {
	Success bool `json:"success"`
}

// LogoutHandler invalidates the session. Idempotent.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(HeaderSessionToken)
		if token == "" {
			writeError(w, apperrors.WithKind(apperrors.ErrValidation, errors.New("session token header is required")))
			return
		}

		success, err := s.deps.Auth.Invalidate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, logoutResponse{Success: success})
	}
}
