package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

type adminResetResponse struct {
	Success bool `json:"success"`
}

// ResetQuotaHandler purges all quota records. Ops-only escape hatch for
// limit changes and incident recovery.
func (s *Server) ResetQuotaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.deps.Limiter.ResetAll(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		log.Info().Msg("quota records purged by admin request")
		writeJSON(w, http.StatusOK, adminResetResponse{Success: true})
	}
}
