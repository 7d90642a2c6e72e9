package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/semanticguess/internal/model"
	"github.com/mcoot/semanticguess/internal/storage"
)

// Storage is a Redis-backed embedding cache and word store. Live sessions
// hold locks and provider handles, so they always stay in process memory.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interfaces
var (
	_ storage.EmbeddingCache = (*Storage)(nil)
	_ storage.WordStore      = (*Storage)(nil)
)

// Embedding operations

func (s *Storage) GetEmbedding(ctx context.Context, word string) (model.Embedding, error) {
	data, err := s.client.Get(ctx, embeddingKey(word)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEmbeddingNotCached
		}
		return nil, err
	}

	var embedding model.Embedding
	if err := json.Unmarshal(data, &embedding); err != nil {
		return nil, err
	}
	return embedding, nil
}

func (s *Storage) SaveEmbedding(ctx context.Context, word string, embedding model.Embedding) error {
	data, err := json.Marshal(embedding)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, embeddingKey(word), data, s.cfg.EmbeddingTTL).Err()
}

// Word operations

func (s *Storage) GetWords(ctx context.Context) ([]string, error) {
	key := wordsKey()

	// Check if the list exists
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrWordListEmpty
	}

	return s.client.LRange(ctx, key, 0, -1).Result()
}

func (s *Storage) SaveWords(ctx context.Context, words []string) error {
	key := wordsKey()

	// Replace the list atomically, keeping order
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)

	if len(words) > 0 {
		values := make([]any, len(words))
		for i, w := range words {
			values[i] = w
		}
		pipe.RPush(ctx, key, values...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
