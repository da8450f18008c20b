package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	// Devices
	s.RegisterRouteHandler("POST "+RouteDeviceRegister, ChainMiddleware(s.RegisterDeviceHandler(), s.APIMiddleware()...))

	// OAuth handshake & session lifecycle
	s.RegisterRouteHandler("POST "+RouteAuthBegin, ChainMiddleware(s.BeginAuthHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthCallback, ChainMiddleware(s.AuthCallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Protected routes (session token + device id headers)
	s.RegisterRouteHandler("GET "+RouteQuotaStatus, ChainMiddleware(s.QuotaStatusHandler(), s.SessionMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePlaylistGenerate, ChainMiddleware(s.GeneratePlaylistHandler(), s.SessionMiddleware()...))
	s.RegisterRouteHandler("GET "+RoutePlaylists, ChainMiddleware(s.ListPlaylistsHandler(), s.SessionMiddleware()...))

	// Admin routes (ops bearer token)
	s.RegisterRouteHandler("POST "+RouteAdminQuotaReset, ChainMiddleware(s.ResetQuotaHandler(), s.AdminMiddleware()...))
}
