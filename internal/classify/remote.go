package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kokoro-ai/kokoro/internal/model"
)

// HTTPProvider classifies statements against a self-hosted classification
// endpoint. Useful when statements must not leave the local network.
type HTTPProvider struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPProvider creates a provider posting to endpoint. The per-call
// deadline comes from the classifier's context timeout; the client
// timeout is only a backstop.
func NewHTTPProvider(endpoint string) *HTTPProvider {
	return &HTTPProvider{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type remoteClassifyRequest struct {
	Text string `json:"text"`
}

type remoteClassifyResponse struct {
	Emotion    string  `json:"emotion"`
	Intensity  float64 `json:"intensity"`
	Confidence float64 `json:"confidence"`
	Color      string  `json:"color,omitempty"`
}

// Classify sends one classification request. Any non-2xx status or
// malformed body is an error; the caller falls back to the lexicon.
func (p *HTTPProvider) Classify(ctx context.Context, text string) (Result, error) {
	reqBody, err := json.Marshal(remoteClassifyRequest{Text: text})
	if err != nil {
		return Result{}, fmt.Errorf("classify: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return Result{}, fmt.Errorf("classify: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("classify: send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Result{}, fmt.Errorf("classify: status %d: %s", resp.StatusCode, string(body))
	}

	var out remoteClassifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("classify: decode response: %w", err)
	}
	if out.Emotion == "" {
		return Result{}, fmt.Errorf("classify: empty emotion in response")
	}

	return Result{
		Emotion:    model.Emotion(out.Emotion),
		Intensity:  out.Intensity,
		Confidence: out.Confidence,
		Color:      out.Color,
	}, nil
}

// SelectProvider picks a provider implementation from the configured name:
// "openai", "http", "off", or "auto" (openai when a key is present, then
// the HTTP endpoint, else disabled). Returns nil when the AI path is off.
func SelectProvider(name, apiKey, aiModel, endpoint string) (Provider, error) {
	switch name {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("classify: provider openai requires an API key")
		}
		return NewOpenAIProvider(apiKey, aiModel), nil
	case "http":
		if endpoint == "" {
			return nil, fmt.Errorf("classify: provider http requires an endpoint")
		}
		return NewHTTPProvider(endpoint), nil
	case "off":
		return nil, nil
	case "auto":
		if apiKey != "" {
			return NewOpenAIProvider(apiKey, aiModel), nil
		}
		if endpoint != "" {
			return NewHTTPProvider(endpoint), nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("classify: unknown provider %q", name)
	}
}
