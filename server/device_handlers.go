package server

import (
	"net/http"
)

type registerDeviceRequest struct {
	Platform    string `json:"platform"`
	AppVersion  string `json:"app_version,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

type registerDeviceResponse struct {
	DeviceID     string `json:"device_id"`
	Platform     string `json:"platform"`
	RegisteredAt int64  `json:"registered_at"` // epoch seconds
}

// RegisterDeviceHandler mints an opaque device identifier for a client
// installation. Registration is unauthenticated; the device id becomes the
// binding target for later sessions.
func (s *Server) RegisterDeviceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerDeviceRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		device, err := s.deps.Devices.Register(r.Context(), req.Platform, req.AppVersion, req.Fingerprint)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, registerDeviceResponse{
			DeviceID:     device.ID,
			Platform:     device.Platform,
			RegisteredAt: device.RegisteredAt.Unix(),
		})
	}
}
