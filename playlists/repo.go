package playlists

import "context"

// Repo defines the interface for playlist storage.
type Repo interface {
	// Create stores an assembled playlist.
	Create(ctx context.Context, playlist *Playlist) error

	// ListByUser returns a user's playlists, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Playlist, error)
}
