package playlists

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-playlist-server/catalog"
	"github.com/jrsteele09/go-playlist-server/internal/apperrors"
	"github.com/jrsteele09/go-playlist-server/internal/patterns"
	"github.com/jrsteele09/go-playlist-server/textgen"
)

const maxPlaylistNameLength = 60

// Generator assembles playlists: it asks the text provider for song
// suggestions, resolves each against the catalog with the user's access
// token, and persists the result.
type Generator struct {
	text     textgen.Provider
	cat      catalog.Provider
	repo     Repo
	patterns patterns.Patterns
	nowTime  func() time.Time // injectable for testing
	newID    func() string
}

// GeneratorOption defines a function type to modify the Generator.
type GeneratorOption func(*Generator)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.nowTime = nowFunc
	}
}

func NewGenerator(text textgen.Provider, cat catalog.Provider, repo Repo, p patterns.Patterns, options ...GeneratorOption) (*Generator, error) {
	if text == nil {
		return nil, errors.New("[NewGenerator] text provider is required")
	}
	if cat == nil {
		return nil, errors.New("[NewGenerator] catalog provider is required")
	}
	if repo == nil {
		return nil, errors.New("[NewGenerator] repo is required")
	}

	g := &Generator{
		text:     text,
		cat:      cat,
		repo:     repo,
		patterns: p,
		nowTime:  time.Now,
		newID:    func() string { return uuid.New().String() },
	}

	for _, opt := range options {
		opt(g)
	}

	return g, nil
}

// Generate builds and persists a playlist for the description. Individual
// catalog misses are tolerated (logged and skipped); a playlist with zero
// resolvable tracks is an external-service failure.
func (g *Generator) Generate(ctx context.Context, userID, accessToken, description string) (*Playlist, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.WithKind(apperrors.ErrValidation, errors.New("description is required"))
	}

	prompt := fmt.Sprintf(g.patterns.PlaylistPrompt, g.patterns.MaxTracks, description)
	text, err := g.text.GenerateText(ctx, prompt)
	if err != nil {
		return nil, apperrors.WithKind(apperrors.ErrExternalService, errors.Wrap(err, "[Generate] text generation"))
	}

	suggestions := parseSuggestions(text, g.patterns.MaxTracks)
	if len(suggestions) == 0 {
		return nil, apperrors.WithKind(apperrors.ErrExternalService, errors.New("[Generate] no usable suggestions in generated text"))
	}

	var tracks []catalog.Track
	for _, suggestion := range suggestions {
		found, err := g.cat.Search(ctx, accessToken, suggestion, 1)
		if err != nil {
			log.Warn().Err(err).Str("query", suggestion).Msg("catalog search failed, skipping suggestion")
			continue
		}
		if len(found) > 0 {
			tracks = append(tracks, found[0])
		}
	}
	if len(tracks) == 0 {
		return nil, apperrors.WithKind(apperrors.ErrExternalService, errors.New("[Generate] no suggestions resolved in catalog"))
	}

	playlist := &Playlist{
		ID:          g.newID(),
		UserID:      userID,
		Name:        playlistName(description),
		Description: description,
		Tracks:      tracks,
		CreatedAt:   g.nowTime(),
	}
	if err := g.repo.Create(ctx, playlist); err != nil {
		return nil, errors.Wrap(err, "[Generate] persist playlist")
	}

	return playlist, nil
}

// List returns the user's playlists, newest first.
func (g *Generator) List(ctx context.Context, userID string) ([]*Playlist, error) {
	result, err := g.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[List] list playlists")
	}
	return result, nil
}

// parseSuggestions extracts "Artist - Title" lines from generated text,
// tolerating numbering and bullet prefixes.
func parseSuggestions(text string, max int) []string {
	var suggestions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeftFunc(line, func(r rune) bool {
			return unicode.IsDigit(r) || r == '.' || r == ')' || r == '-' || r == '*' || r == ' '
		})
		if line == "" || !strings.Contains(line, " - ") {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == max {
			break
		}
	}
	return suggestions
}

func playlistName(description string) string {
	if len(description) <= maxPlaylistNameLength {
		return description
	}
	return strings.TrimSpace(description[:maxPlaylistNameLength])
}
