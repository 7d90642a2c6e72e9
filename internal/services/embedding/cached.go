package embedding

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mcoot/semanticguess/internal/model"
	"github.com/mcoot/semanticguess/internal/storage"
)

// Cached serves embeddings from a cache, asking the wrapped provider on a miss.
// Cache failures are logged and never fail the lookup.
type Cached struct {
	next   Provider
	cache  storage.EmbeddingCache
	logger zerolog.Logger
}

// NewCached wraps a provider with a cache
func NewCached(next Provider, cache storage.EmbeddingCache, logger zerolog.Logger) *Cached {
	return &Cached{
		next:   next,
		cache:  cache,
		logger: logger.With().Str("component", "embedding_cache").Logger(),
	}
}

// Embed returns the cached embedding for word, fetching and storing it on a miss
func (c *Cached) Embed(ctx context.Context, word string) (model.Embedding, error) {
	embedding, err := c.cache.GetEmbedding(ctx, word)
	switch {
	case err == nil:
		c.logger.Debug().Str("word", word).Msg("embedding cache hit")
		return embedding, nil
	case !errors.Is(err, model.ErrEmbeddingNotCached):
		c.logger.Warn().Err(err).Str("word", word).Msg("embedding cache read failed")
	}

	embedding, err = c.next.Embed(ctx, word)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SaveEmbedding(ctx, word, embedding); err != nil {
		c.logger.Warn().Err(err).Str("word", word).Msg("embedding cache write failed")
	}
	return embedding, nil
}

var _ Provider = (*Cached)(nil)
