package config

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequired sets the minimum environment for a valid config
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("COHERE_API_KEY", "test-key")
}

func TestParseDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, LogFormatJSON, cfg.Server.LogFormat)
	assert.Equal(t, StorageTypeMemory, cfg.Storage.Type)
	assert.Equal(t, EmbeddingProviderCohere, cfg.Embedding.Provider)
	assert.Equal(t, "embed-english-v3.0", cfg.Embedding.CohereModel)
	assert.Equal(t, "https://api.cohere.com", cfg.Embedding.CohereBaseURL)
	assert.Equal(t, 7*24*time.Hour, cfg.Embedding.CacheTTL)
	assert.Zero(t, cfg.Auth.TokenTTL)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.Server.Host)
}

func TestParseOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SEMGUESS_HOST", "127.0.0.1")
	t.Setenv("SEMGUESS_PORT", "9000")
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SEMGUESS_WORDS_PATH", "/data/words.txt")
	t.Setenv("SEMGUESS_TOKEN_SECRET", "hunter2")
	t.Setenv("SEMGUESS_TOKEN_TTL", "24h")
	t.Setenv("SEMGUESS_RATE_LIMIT_RPS", "0")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, StorageTypeRedis, cfg.Storage.Type)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Storage.RedisURL)
	assert.Equal(t, "/data/words.txt", cfg.WordsPath)
	assert.Equal(t, "hunter2", cfg.Auth.TokenSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Zero(t, cfg.RateLimit.RPS)
}

func TestParseRejectsBadNumber(t *testing.T) {
	setRequired(t)
	t.Setenv("SEMGUESS_PORT", "not-a-port")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:    ServerConfig{Port: 8080, LogLevel: "info", LogFormat: LogFormatJSON},
			Storage:   StorageConfig{Type: StorageTypeMemory},
			Embedding: EmbeddingConfig{Provider: EmbeddingProviderCohere, CohereAPIKey: "k"},
			RateLimit: RateLimitConfig{RPS: 10, Burst: 20},
		}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "SEMGUESS_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "SEMGUESS_PORT"},
		{"bad log format", func(c *Config) { c.Server.LogFormat = "xml" }, "SEMGUESS_LOG_FORMAT"},
		{"redis without url", func(c *Config) { c.Storage.Type = StorageTypeRedis }, "REDIS_URL"},
		{"unknown storage", func(c *Config) { c.Storage.Type = "sqlite" }, "STORAGE_TYPE"},
		{"cohere without key", func(c *Config) { c.Embedding.CohereAPIKey = "" }, "COHERE_API_KEY"},
		{"vectors without path", func(c *Config) { c.Embedding.Provider = EmbeddingProviderVectors }, "SEMGUESS_VECTORS_PATH"},
		{"vectors with path", func(c *Config) {
			c.Embedding.Provider = EmbeddingProviderVectors
			c.Embedding.VectorsPath = "vectors.txt"
		}, ""},
		{"unknown provider", func(c *Config) { c.Embedding.Provider = "openai" }, "SEMGUESS_EMBEDDING_PROVIDER"},
		{"negative ttl", func(c *Config) { c.Auth.TokenTTL = -time.Second }, "SEMGUESS_TOKEN_TTL"},
		{"negative rps", func(c *Config) { c.RateLimit.RPS = -1 }, "SEMGUESS_RATE_LIMIT_RPS"},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, "SEMGUESS_RATE_LIMIT_BURST"},
		{"zero burst without limit", func(c *Config) {
			c.RateLimit.RPS = 0
			c.RateLimit.Burst = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Config{
		Server:    ServerConfig{Port: 0, LogFormat: LogFormatJSON},
		Storage:   StorageConfig{Type: StorageTypeRedis},
		Embedding: EmbeddingConfig{Provider: EmbeddingProviderCohere},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEMGUESS_PORT")
	assert.Contains(t, err.Error(), "REDIS_URL")
	assert.Contains(t, err.Error(), "COHERE_API_KEY")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(ServerConfig{LogLevel: "warn", LogFormat: LogFormatJSON}, &buf)
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn().Str("component", "test").Msg("kept")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNewLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(ServerConfig{LogLevel: "debug", LogFormat: LogFormatConsole}, &buf)
	require.NoError(t, err)

	logger.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := NewLogger(ServerConfig{LogLevel: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}
