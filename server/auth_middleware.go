package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-playlist-server/auth"
	"github.com/jrsteele09/go-playlist-server/internal/apperrors"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyIdentity stores the validated session identity
const ContextKeyIdentity ContextKey = "identity"

const (
	// HeaderSessionToken carries the opaque session credential
	HeaderSessionToken = "X-Session-Token"
	// HeaderDeviceID carries the device the session must be bound to
	HeaderDeviceID = "X-Device-ID"
)

// IdentityFromContext returns the identity injected by RequireSession.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(ContextKeyIdentity).(*auth.Identity)
	return identity, ok
}

// RequireSession is the single choke point for all protected routes. A
// request without both credential headers is malformed (client error); a
// request with headers that do not resolve to a live session is
// unauthenticated.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderSessionToken)
			deviceID := r.Header.Get(HeaderDeviceID)
			if token == "" || deviceID == "" {
				writeError(w, apperrors.WithKind(apperrors.ErrValidation, errors.New("session token and device id headers are required")))
				return
			}

			identity, err := s.deps.Auth.Validate(r.Context(), token, deviceID)
			if err != nil {
				writeError(w, err)
				return
			}
			if identity == nil {
				writeError(w, apperrors.WithKind(apperrors.ErrAuthentication, errors.New("invalid or expired session")))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, identity)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAdmin validates an HMAC-signed ops bearer token. Admin routes are
// disabled entirely when no secret is configured.
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			secret := s.config.GetAdminJWTSecret()
			if secret == "" {
				writeError(w, apperrors.WithKind(apperrors.ErrConfiguration, errors.New("admin endpoints are not configured")))
				return
			}

			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeError(w, apperrors.WithKind(apperrors.ErrAuthentication, errors.New("bearer token required")))
				return
			}

			_, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				writeError(w, apperrors.WithKind(apperrors.ErrAuthentication, errors.Wrap(err, "invalid admin token")))
				return
			}

			next(w, r)
		}
	}
}
