package factory

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mcoot/semanticguess/internal/dependencies/clock"
	"github.com/mcoot/semanticguess/internal/dependencies/random"
	"github.com/mcoot/semanticguess/internal/services/auth"
	"github.com/mcoot/semanticguess/internal/services/embedding"
	"github.com/mcoot/semanticguess/internal/services/game"
	"github.com/mcoot/semanticguess/internal/services/words"
	"github.com/mcoot/semanticguess/internal/storage"
	"github.com/mcoot/semanticguess/internal/storage/memory"
	redisstorage "github.com/mcoot/semanticguess/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Stores groups the storage backends the services use. Sessions always live
// in memory; the embedding cache and word list may live in Redis.
type Stores struct {
	Sessions   storage.SessionStore
	Embeddings storage.EmbeddingCache
	Words      storage.WordStore
}

// App contains all wired application components
type App struct {
	// Storage
	Stores Stores

	// External dependencies
	Clock    clock.Clock
	Random   random.Random
	Embedder embedding.Provider

	// Services
	WordService    *words.Service
	AuthService    *auth.Service
	GameController *game.Controller

	redis *redisstorage.Storage
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *zerolog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Embedding selects the embedding provider
	Embedding embedding.Config
	// Embedder overrides the configured provider when set. It is still
	// wrapped with the embedding cache.
	Embedder embedding.Provider
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	mem := memory.New()
	stores := Stores{Sessions: mem, Embeddings: mem, Words: mem}

	var redisStore *redisstorage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		var err error
		redisStore, err = redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		stores.Embeddings = redisStore
		stores.Words = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	var provider embedding.Provider
	if cfg.Embedder != nil {
		provider = embedding.NewCached(cfg.Embedder, stores.Embeddings, logger)
	} else {
		var err error
		provider, err = embedding.New(cfg.Embedding, stores.Embeddings, logger)
		if err != nil {
			closeRedis(redisStore)
			return nil, fmt.Errorf("embedding provider: %w", err)
		}
	}

	authService, err := auth.New(clk, cfg.AuthConfig)
	if err != nil {
		closeRedis(redisStore)
		return nil, err
	}

	app := newWithDependencies(stores, clk, rnd, provider, authService, logger)
	app.redis = redisStore
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	stores Stores,
	clk clock.Clock,
	rnd random.Random,
	provider embedding.Provider,
	authService *auth.Service,
	logger zerolog.Logger,
) *App {
	wordService := words.New(stores.Words, rnd, logger)
	gameController := game.NewController(stores.Sessions, authService, wordService, provider, clk, logger)

	return &App{
		Stores:         stores,
		Clock:          clk,
		Random:         rnd,
		Embedder:       provider,
		WordService:    wordService,
		AuthService:    authService,
		GameController: gameController,
	}
}

// Close releases external connections
func (a *App) Close() error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Close()
}

func closeRedis(s *redisstorage.Storage) {
	if s != nil {
		_ = s.Close()
	}
}
