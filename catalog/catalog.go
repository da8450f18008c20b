package catalog

import "context"

// Track is one searchable item in the music platform's catalog.
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	URI        string `json:"uri"`
	DurationMS int    `json:"duration_ms"`
}

// Provider searches the external music catalog. Calls are made with the
// end user's platform access token, so results respect their market and
// account restrictions.
type Provider interface {
	Search(ctx context.Context, accessToken, query string, limit int) ([]Track, error)
}
