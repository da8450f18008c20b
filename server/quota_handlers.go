package server

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-playlist-server/internal/apperrors"
)

// QuotaStatusHandler projects the caller's daily quota state.
func (s *Server) QuotaStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, apperrors.WithKind(apperrors.ErrAuthentication, errors.New("no identity in request context")))
			return
		}

		status := s.deps.Limiter.GetStatus(r.Context(), identity.UserID)
		writeJSON(w, http.StatusOK, status)
	}
}
