package playlists

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-playlist-server/catalog"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
type InMemoryRepo struct {
	mu        sync.RWMutex
	playlists map[string]*Playlist
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{playlists: make(map[string]*Playlist)}
}

func (r *InMemoryRepo) Create(ctx context.Context, playlist *Playlist) error {
	if playlist == nil {
		return errors.New("playlist cannot be nil")
	}
	if playlist.ID == "" {
		return errors.New("playlist id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *playlist
	copied.Tracks = append([]catalog.Track(nil), playlist.Tracks...)
	r.playlists[playlist.ID] = &copied
	return nil
}

func (r *InMemoryRepo) ListByUser(ctx context.Context, userID string) ([]*Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Playlist
	for _, p := range r.playlists {
		if p.UserID != userID {
			continue
		}
		copied := *p
		copied.Tracks = append([]catalog.Track(nil), p.Tracks...)
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
