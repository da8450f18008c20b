package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Health
	RouteHealth = "/health"

	// Devices
	RouteDeviceRegister = "/api/devices/register"

	// Auth Routes - OAuth handshake & session lifecycle
	RouteAuthBegin    = "/api/auth/begin"
	RouteAuthCallback = "/api/auth/callback"
	RouteAuthRefresh  = "/api/auth/refresh"
	RouteAuthLogout   = "/api/auth/logout"

	// Quota
	RouteQuotaStatus = "/api/quota/status"

	// Playlists
	RoutePlaylists        = "/api/playlists"
	RoutePlaylistGenerate = "/api/playlists/generate"

	// Admin Routes
	RouteAdminQuotaReset = "/api/admin/quota/reset"

	// Post-login landing for the device's embedded browser
	RouteAuthComplete = "/auth/complete"
)
