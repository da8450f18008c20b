package playlists

import (
	"time"

	"github.com/jrsteele09/go-playlist-server/catalog"
)

// Playlist is an assembled set of catalog tracks owned by one user.
type Playlist struct {
	ID          string          `json:"id"`
	UserID      string          `json:"-"` // internal owner id, never serialized
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Tracks      []catalog.Track `json:"tracks"`
	CreatedAt   time.Time       `json:"created_at"`
}
