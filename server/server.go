package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-playlist-server/auth"
	"github.com/jrsteele09/go-playlist-server/devices"
	"github.com/jrsteele09/go-playlist-server/internal/config"
	"github.com/jrsteele09/go-playlist-server/playlists"
	"github.com/jrsteele09/go-playlist-server/ratelimit"
)

// Dependencies holds the services the HTTP surface exposes.
type Dependencies struct {
	Auth      *auth.Manager
	Limiter   *ratelimit.Limiter
	Devices   *devices.Service
	Playlists *playlists.Generator
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	deps   Dependencies
}

func New(config config.Config, deps Dependencies) (*Server, error) {
	if deps.Auth == nil {
		return nil, errors.New("[Server New] auth manager is required")
	}
	if deps.Limiter == nil {
		return nil, errors.New("[Server New] rate limiter is required")
	}
	if deps.Devices == nil {
		return nil, errors.New("[Server New] device service is required")
	}
	if deps.Playlists == nil {
		return nil, errors.New("[Server New] playlist generator is required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: config,
		deps:   deps,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
