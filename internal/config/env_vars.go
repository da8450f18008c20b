package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	baseURLVar    = "BASE_URL"
	databaseVar   = "DATABASE_PATH"
	redisAddrVar  = "REDIS_ADDR"
	patternsVar   = "PATTERNS_FILE"
	textGenURLVar = "TEXTGEN_URL"
	textGenKeyVar = "TEXTGEN_API_KEY"
	catalogURLVar = "CATALOG_URL"
)

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetDatabasePath() string
	GetRedisAddr() string
	GetPatternsFile() string
	GetTextGenURL() string
	GetTextGenAPIKey() string
	GetCatalogURL() string
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Go Playlist Server")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBaseURL returns the public base URL of this service, used to build the
// OAuth redirect URI handed to the external identity provider.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

func (EnvVars) GetDatabasePath() string {
	return GetEnv(databaseVar, "./data/playlist.db")
}

// GetRedisAddr returns the redis address for the authorization state store.
// Empty means the in-memory store is used (single-process deployments only).
func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "")
}

func (EnvVars) GetPatternsFile() string {
	return GetEnv(patternsVar, "./config/patterns.json")
}

func (EnvVars) GetTextGenURL() string {
	return GetEnv(textGenURLVar, "")
}

func (EnvVars) GetTextGenAPIKey() string {
	return GetEnv(textGenKeyVar, "")
}

func (EnvVars) GetCatalogURL() string {
	return GetEnv(catalogURLVar, "https://api.spotify.com")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
