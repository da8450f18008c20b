package patterns

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Patterns holds the text templates used to build generation prompts.
// They live in a JSON file so curators can tune wording without a deploy.
type Patterns struct {
	// PlaylistPrompt is a fmt template taking the track count (%d) and
	// the user's description (%s).
	PlaylistPrompt string `json:"playlist_prompt"`

	// MaxTracks caps how many suggestions a single generation may request.
	MaxTracks int `json:"max_tracks"`
}

// Default returns the built-in patterns used when no file is configured.
func Default() Patterns {
	return Patterns{
		PlaylistPrompt: "You are a music curator. Suggest %d songs for a playlist described as: %s. " +
			"Reply with one song per line in the form \"Artist - Title\" and nothing else.",
		MaxTracks: 20,
	}
}

// Load reads patterns from path. A missing file yields the defaults; a
// present but malformed file is an error so a bad deploy fails loudly.
func Load(path string) (Patterns, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Patterns{}, errors.Wrap(err, "[Load] read patterns file")
	}

	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Patterns{}, errors.Wrap(err, "[Load] parse patterns file")
	}
	if p.MaxTracks <= 0 {
		p.MaxTracks = Default().MaxTracks
	}
	return p, nil
}
