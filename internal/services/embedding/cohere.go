package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/semanticguess/internal/model"
)

// CohereConfig holds settings for the Cohere embed API
type CohereConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	InputType string
	Timeout   time.Duration
}

// DefaultCohereConfig returns defaults for the Cohere embed API
func DefaultCohereConfig() CohereConfig {
	return CohereConfig{
		BaseURL:   "https://api.cohere.com",
		Model:     "embed-english-v3.0",
		InputType: "classification",
		Timeout:   30 * time.Second,
	}
}

// CohereClient fetches embeddings from Cohere's v1 embed endpoint
type CohereClient struct {
	cfg        CohereConfig
	httpClient *http.Client
}

type cohereEmbedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model,omitempty"`
	InputType string   `json:"input_type,omitempty"`
}

type cohereEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

type cohereErrorResponse struct {
	Message string `json:"message"`
}

// NewCohereClient creates a Cohere client. Missing settings use defaults.
func NewCohereClient(cfg CohereConfig) (*CohereClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("cohere API key is required")
	}

	defaults := DefaultCohereConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.InputType == "" {
		cfg.InputType = defaults.InputType
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &CohereClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Embed requests the embedding of a single word
func (c *CohereClient) Embed(ctx context.Context, word string) (model.Embedding, error) {
	data, err := json.Marshal(cohereEmbedRequest{
		Texts:     []string{word},
		Model:     c.cfg.Model,
		InputType: c.cfg.InputType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", model.ErrEmbeddingFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/embed", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", model.ErrEmbeddingFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", model.ErrEmbeddingFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", model.ErrEmbeddingFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp cohereErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d: %s", model.ErrEmbeddingFailed, resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", model.ErrEmbeddingFailed, resp.StatusCode)
	}

	var result cohereEmbedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", model.ErrEmbeddingFailed, err)
	}
	if len(result.Embeddings) != 1 || len(result.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("%w: expected one embedding, got %d", model.ErrEmbeddingFailed, len(result.Embeddings))
	}

	return model.Embedding(result.Embeddings[0]), nil
}
