package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcoot/semanticguess/internal/api"
	"github.com/mcoot/semanticguess/internal/config"
	"github.com/mcoot/semanticguess/internal/factory"
	"github.com/mcoot/semanticguess/internal/middleware"
	"github.com/mcoot/semanticguess/internal/services/auth"
	"github.com/mcoot/semanticguess/internal/services/embedding"
	redisstorage "github.com/mcoot/semanticguess/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Server, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	// Build factory config from environment
	factoryCfg := factory.Config{
		Logger:      &logger,
		StorageType: cfg.Storage.Type,
		AuthConfig: auth.Config{
			Secret:   cfg.Auth.TokenSecret,
			TokenTTL: cfg.Auth.TokenTTL,
		},
		Embedding: embedding.Config{
			Provider: cfg.Embedding.Provider,
			Cohere: embedding.CohereConfig{
				BaseURL: cfg.Embedding.CohereBaseURL,
				APIKey:  cfg.Embedding.CohereAPIKey,
				Model:   cfg.Embedding.CohereModel,
			},
			VectorsPath: cfg.Embedding.VectorsPath,
		},
	}

	// Configure Redis if storage type is redis
	if cfg.Storage.Type == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		redisCfg.EmbeddingTTL = cfg.Embedding.CacheTTL
		factoryCfg.RedisConfig = &redisCfg
	}

	if cfg.Auth.TokenSecret == "" {
		logger.Warn().Msg("SEMGUESS_TOKEN_SECRET not set, tokens will not survive a restart")
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close storage")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load target words
	if err := app.WordService.Load(ctx, cfg.WordsPath); err != nil {
		return fmt.Errorf("load words: %w", err)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go limiter.PruneEvery(ctx, time.Minute, 10*time.Minute)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		RateLimiter:    limiter,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	server := api.NewServer(router, serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info().Msg("server stopped")
	return nil
}
