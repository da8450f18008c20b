package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second
	maxBody        = 1 << 20
)

var _ Provider = (*HTTPClient)(nil)

// HTTPClient calls an OpenAI-compatible chat-completions endpoint.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// HTTPClientOption defines a function type to modify the HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithModel overrides the completion model.
func WithModel(model string) HTTPClientOption {
	return func(c *HTTPClient) {
		c.model = model
	}
}

// WithHTTPClient overrides the underlying http client.
func WithHTTPClient(client *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

func NewHTTPClient(baseURL, apiKey string, options ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *HTTPClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "[GenerateText] marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "[GenerateText] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "[GenerateText] completion request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", errors.Wrap(err, "[GenerateText] read response")
	}
	if resp.StatusCode >= 300 {
		return "", errors.Errorf("[GenerateText] completion failed: status=%d", resp.StatusCode)
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", errors.Wrap(err, "[GenerateText] decode response")
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("[GenerateText] completion returned no choices")
	}

	return decoded.Choices[0].Message.Content, nil
}
