package sessions

import "time"

// Session represents one authenticated device's active grant against the
// external music platform. The token is opaque and high-entropy; it is
// never reused after invalidation. Exactly one live session exists per
// device - a new login supersedes the prior one.
type Session struct {
	Token        string    // Opaque session token (256-bit, base64url)
	DeviceID     string    // Device this session is bound to
	UserID       string    // External-provider user identifier
	AccessToken  string    // Provider access token
	RefreshToken string    // Provider refresh token
	AccountType  string    // Account classification tag (e.g. "premium")
	CreatedAt    time.Time // When the session was created
	ExpiresAt    time.Time // Always CreatedAt + fixed lifetime
	LastUsedAt   time.Time // Bumped on every successful validation
}
