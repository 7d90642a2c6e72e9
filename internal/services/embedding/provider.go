package embedding

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mcoot/semanticguess/internal/model"
	"github.com/mcoot/semanticguess/internal/storage"
)

// Provider names
const (
	ProviderCohere  = "cohere"
	ProviderVectors = "vectors"
)

// Provider turns a word into its embedding
type Provider interface {
	Embed(ctx context.Context, word string) (model.Embedding, error)
}

// Config selects and configures an embedding provider
type Config struct {
	// Provider is "cohere" or "vectors"
	Provider string
	Cohere   CohereConfig
	// VectorsPath is the word-vector file used by the "vectors" provider
	VectorsPath string
}

// New builds the configured provider, wrapped in a cache when one is given
func New(cfg Config, cache storage.EmbeddingCache, logger zerolog.Logger) (Provider, error) {
	var provider Provider

	switch cfg.Provider {
	case ProviderCohere, "":
		client, err := NewCohereClient(cfg.Cohere)
		if err != nil {
			return nil, err
		}
		provider = client
	case ProviderVectors:
		table, err := LoadVectorFile(cfg.VectorsPath)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("path", cfg.VectorsPath).
			Int("words", table.Len()).
			Int("dimensions", table.Dimensions()).
			Msg("word vectors loaded")
		provider = table
	default:
		return nil, fmt.Errorf("invalid embedding provider %q: must be %q or %q", cfg.Provider, ProviderCohere, ProviderVectors)
	}

	if cache == nil {
		return provider, nil
	}
	return NewCached(provider, cache, logger), nil
}
