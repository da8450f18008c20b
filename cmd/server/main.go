package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jrsteele09/go-playlist-server/auth"
	"github.com/jrsteele09/go-playlist-server/auth/authstate"
	"github.com/jrsteele09/go-playlist-server/auth/sessions"
	"github.com/jrsteele09/go-playlist-server/catalog"
	"github.com/jrsteele09/go-playlist-server/devices"
	"github.com/jrsteele09/go-playlist-server/internal/config"
	"github.com/jrsteele09/go-playlist-server/internal/patterns"
	"github.com/jrsteele09/go-playlist-server/playlists"
	"github.com/jrsteele09/go-playlist-server/provider"
	"github.com/jrsteele09/go-playlist-server/ratelimit"
	"github.com/jrsteele09/go-playlist-server/server"
	"github.com/jrsteele09/go-playlist-server/textgen"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	configureLogging(c)
	displayAppname(c.GetAppName())

	srv, err := buildServer(c)
	if err != nil {
		return errors.Wrap(err, "buildServer")
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(c config.Config) (*server.Server, error) {
	db, err := gorm.Open(sqlite.Open(c.GetDatabasePath()), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	sessionRepo, err := sessions.NewGormRepo(db)
	if err != nil {
		return nil, errors.Wrap(err, "session repo")
	}

	stateRepo, err := buildStateRepo(c)
	if err != nil {
		return nil, errors.Wrap(err, "state repo")
	}

	idp, err := buildIdentityProvider(c)
	if err != nil {
		return nil, errors.Wrap(err, "identity provider")
	}

	manager, err := auth.NewManager(auth.Repos{Sessions: sessionRepo, States: stateRepo}, idp,
		auth.WithSessionLifetime(c.GetSessionLifetime()),
		auth.WithStateLifetime(c.GetStateLifetime()),
		auth.WithProviderTimeout(c.GetProviderTimeout()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "auth manager")
	}

	quotaStore, err := ratelimit.NewGormStore(db)
	if err != nil {
		return nil, errors.Wrap(err, "quota store")
	}
	limiter, err := ratelimit.NewLimiter(quotaStore, c.GetDailyRequestLimit(), c.GetQuotaEnabled(), c.GetIdentityHashKey())
	if err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}

	deviceRepo, err := devices.NewGormRepo(db)
	if err != nil {
		return nil, errors.Wrap(err, "device repo")
	}
	deviceService, err := devices.NewService(deviceRepo)
	if err != nil {
		return nil, errors.Wrap(err, "device service")
	}

	promptPatterns, err := patterns.Load(c.GetPatternsFile())
	if err != nil {
		return nil, errors.Wrap(err, "prompt patterns")
	}

	playlistRepo, err := playlists.NewGormRepo(db)
	if err != nil {
		return nil, errors.Wrap(err, "playlist repo")
	}
	generator, err := playlists.NewGenerator(
		textgen.NewHTTPClient(c.GetTextGenURL(), c.GetTextGenAPIKey()),
		catalog.NewHTTPClient(c.GetCatalogURL()),
		playlistRepo,
		promptPatterns,
	)
	if err != nil {
		return nil, errors.Wrap(err, "playlist generator")
	}

	return server.New(c, server.Dependencies{
		Auth:      manager,
		Limiter:   limiter,
		Devices:   deviceService,
		Playlists: generator,
	})
}

// buildStateRepo prefers redis when an address is configured so in-flight
// OAuth states survive restarts and are shared across replicas. Falls back
// to process-local storage for single-instance deployments.
func buildStateRepo(c config.Config) (authstate.Repo, error) {
	addr := c.GetRedisAddr()
	if addr == "" {
		return authstate.NewInMemoryRepo(), nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	return authstate.NewRedisRepo(client)
}

func buildIdentityProvider(c config.Config) (provider.IdentityProvider, error) {
	if issuer := c.GetProviderOIDCIssuer(); issuer != "" {
		ctx, cancel := context.WithTimeout(context.Background(), c.GetProviderTimeout())
		defer cancel()
		return provider.NewOIDC(ctx, c)
	}
	return provider.New(c), nil
}

func configureLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
