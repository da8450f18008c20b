package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultTimeout = 10 * time.Second
	maxBody        = 1 << 20
)

var _ Provider = (*HTTPClient)(nil)

// HTTPClient searches the music platform's track catalog.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *HTTPClient) Search(ctx context.Context, accessToken, query string, limit int) ([]Track, error) {
	if limit <= 0 {
		limit = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/search?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Search] build request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Search] search request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Wrap(err, "[Search] read response")
	}
	if resp.StatusCode >= 300 {
		return nil, errors.Errorf("[Search] search failed: status=%d", resp.StatusCode)
	}

	var decoded struct {
		Tracks struct {
			Items []struct {
				ID      string `json:"id"`
				Name    string `json:"name"`
				URI     string `json:"uri"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				Album struct {
					Name string `json:"name"`
				} `json:"album"`
				DurationMS int `json:"duration_ms"`
			} `json:"items"`
		} `json:"tracks"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Wrap(err, "[Search] decode response")
	}

	tracks := make([]Track, 0, len(decoded.Tracks.Items))
	for _, item := range decoded.Tracks.Items {
		artist := ""
		if len(item.Artists) > 0 {
			artist = item.Artists[0].Name
		}
		tracks = append(tracks, Track{
			ID:         item.ID,
			Title:      item.Name,
			Artist:     artist,
			Album:      item.Album.Name,
			URI:        item.URI,
			DurationMS: item.DurationMS,
		})
	}
	return tracks, nil
}
