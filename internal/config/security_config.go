package config

import (
	"strconv"
	"time"
)

type SecurityConfig interface {
	GetSessionLifetime() time.Duration
	GetStateLifetime() time.Duration
	GetSessionTokenLength() int
	GetIdentityHashKey() []byte
	GetAdminJWTSecret() string
	GetThrottlePerMinute() int
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionLifetime is the fixed session lifetime; expiry is always
// creation time plus this value.
func (Security) GetSessionLifetime() time.Duration {
	return 1 * time.Hour
}

// GetStateLifetime bounds the window between authorization initiation and
// the provider callback. Deliberately much shorter than the session
// lifetime so a leaked state cannot be replayed as a session credential.
func (Security) GetStateLifetime() time.Duration {
	return 10 * time.Minute
}

func (Security) GetSessionTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

// GetIdentityHashKey keys the quota identity hash. Rotating it orphans
// existing quota rows, which is acceptable (they become stale records).
func (Security) GetIdentityHashKey() []byte {
	return []byte(GetEnv("IDENTITY_HASH_KEY", "playlist-identity-hash"))
}

func (Security) GetAdminJWTSecret() string {
	return GetEnv("ADMIN_JWT_SECRET", "")
}

// GetThrottlePerMinute is the per-client-IP burst throttle on the HTTP
// surface. Zero disables it.
func (Security) GetThrottlePerMinute() int {
	n, err := strconv.Atoi(GetEnv("THROTTLE_PER_MINUTE", "120"))
	if err != nil || n < 0 {
		return 120
	}
	return n
}
