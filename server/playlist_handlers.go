package server

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-playlist-server/internal/apperrors"
	"github.com/jrsteele09/go-playlist-server/playlists"
)

type generatePlaylistRequest struct {
	Description string `json:"description"`
}

type playlistsResponse struct {
	Playlists []*playlists.Playlist `json:"playlists"`
}

// GeneratePlaylistHandler is the quota-guarded operation: the daily limit
// is checked before the work and the request is recorded only after the
// playlist has actually been generated.
func (s *Server) GeneratePlaylistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, apperrors.WithKind(apperrors.ErrAuthentication, errors.New("no identity in request context")))
			return
		}

		var req generatePlaylistRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !s.deps.Limiter.CanMakeRequest(r.Context(), identity.UserID) {
			writeError(w, apperrors.WithKind(apperrors.ErrRateLimited, errors.New("daily request limit reached")))
			return
		}

		playlist, err := s.deps.Playlists.Generate(r.Context(), identity.UserID, identity.AccessToken, req.Description)
		if err != nil {
			writeError(w, err)
			return
		}

		s.deps.Limiter.RecordRequest(r.Context(), identity.UserID)
		writeJSON(w, http.StatusCreated, playlist)
	}
}

// ListPlaylistsHandler returns the caller's playlists, newest first.
func (s *Server) ListPlaylistsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, apperrors.WithKind(apperrors.ErrAuthentication, errors.New("no identity in request context")))
			return
		}

		result, err := s.deps.Playlists.List(r.Context(), identity.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		if result == nil {
			result = []*playlists.Playlist{}
		}

		writeJSON(w, http.StatusOK, playlistsResponse{Playlists: result})
	}
}
