package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage types
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Embedding providers
const (
	EmbeddingProviderCohere  = "cohere"
	EmbeddingProviderVectors = "vectors"
)

// Log formats
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Config is the server configuration, read from the environment
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Embedding EmbeddingConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig

	// WordsPath is an optional target word list, one word per line
	WordsPath string `env:"SEMGUESS_WORDS_PATH"`
}

// ServerConfig holds listener and logging settings
type ServerConfig struct {
	Host      string `env:"SEMGUESS_HOST"`
	Port      int    `env:"SEMGUESS_PORT"       envDefault:"8080"`
	LogLevel  string `env:"SEMGUESS_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"SEMGUESS_LOG_FORMAT" envDefault:"json"`
}

// StorageConfig selects the storage backend
type StorageConfig struct {
	Type     string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL string `env:"REDIS_URL"`
}

// EmbeddingConfig selects and configures the embedding provider
type EmbeddingConfig struct {
	Provider      string        `env:"SEMGUESS_EMBEDDING_PROVIDER"  envDefault:"cohere"`
	CohereAPIKey  string        `env:"COHERE_API_KEY"`
	CohereModel   string        `env:"COHERE_MODEL"                 envDefault:"embed-english-v3.0"`
	CohereBaseURL string        `env:"COHERE_BASE_URL"              envDefault:"https://api.cohere.com"`
	VectorsPath   string        `env:"SEMGUESS_VECTORS_PATH"`
	CacheTTL      time.Duration `env:"SEMGUESS_EMBEDDING_CACHE_TTL" envDefault:"168h"`
}

// AuthConfig holds token settings
type AuthConfig struct {
	// TokenSecret derives the signing key. When empty a random key is used
	// and tokens do not survive a restart.
	TokenSecret string `env:"SEMGUESS_TOKEN_SECRET"`
	// TokenTTL of zero means tokens never expire
	TokenTTL time.Duration `env:"SEMGUESS_TOKEN_TTL"`
}

// RateLimitConfig holds per-client request limits. An RPS of zero disables limiting.
type RateLimitConfig struct {
	RPS   float64 `env:"SEMGUESS_RATE_LIMIT_RPS"   envDefault:"10"`
	Burst int     `env:"SEMGUESS_RATE_LIMIT_BURST" envDefault:"20"`
}

// Load reads a .env file if present, then parses and validates the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the environment and validates it
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values and cross-field requirements
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SEMGUESS_PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	switch c.Server.LogFormat {
	case LogFormatJSON, LogFormatConsole:
	default:
		errs = append(errs, fmt.Errorf("SEMGUESS_LOG_FORMAT must be %q or %q, got %q", LogFormatJSON, LogFormatConsole, c.Server.LogFormat))
	}

	switch c.Storage.Type {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.Storage.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL required when STORAGE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE must be %q or %q, got %q", StorageTypeMemory, StorageTypeRedis, c.Storage.Type))
	}

	switch c.Embedding.Provider {
	case EmbeddingProviderCohere:
		if c.Embedding.CohereAPIKey == "" {
			errs = append(errs, errors.New("COHERE_API_KEY required when SEMGUESS_EMBEDDING_PROVIDER=cohere"))
		}
	case EmbeddingProviderVectors:
		if c.Embedding.VectorsPath == "" {
			errs = append(errs, errors.New("SEMGUESS_VECTORS_PATH required when SEMGUESS_EMBEDDING_PROVIDER=vectors"))
		}
	default:
		errs = append(errs, fmt.Errorf("SEMGUESS_EMBEDDING_PROVIDER must be %q or %q, got %q", EmbeddingProviderCohere, EmbeddingProviderVectors, c.Embedding.Provider))
	}

	if c.Auth.TokenTTL < 0 {
		errs = append(errs, errors.New("SEMGUESS_TOKEN_TTL must not be negative"))
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("SEMGUESS_RATE_LIMIT_RPS must not be negative"))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("SEMGUESS_RATE_LIMIT_BURST must be at least 1"))
	}

	return errors.Join(errs...)
}
