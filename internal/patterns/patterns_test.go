package patterns_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-playlist-server/internal/patterns"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	p, err := patterns.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Equal(t, patterns.Default(), p)
}

func TestLoad_OverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"playlist_prompt":"pick %d songs: %s","max_tracks":5}`), 0o600))

	p, err := patterns.Load(path)
	require.NoError(t, err)
	require.Equal(t, "pick %d songs: %s", p.PlaylistPrompt)
	require.Equal(t, 5, p.MaxTracks)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := patterns.Load(path)
	require.Error(t, err)
}
