package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/mcoot/semanticguess/internal/api/apierr"
	"github.com/mcoot/semanticguess/internal/api/handler"
	"github.com/mcoot/semanticguess/internal/api/middleware"
	sharedmw "github.com/mcoot/semanticguess/internal/middleware"
	"github.com/mcoot/semanticguess/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         zerolog.Logger
	GameController game.ControllerInterface
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *sharedmw.RateLimiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.GameController)
	compatHandler := handler.NewCompatHandler(cfg.GameController)

	// Common middleware, outermost first
	r.Use(sharedmw.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(sharedmw.Logging(cfg.Logger))
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint (no auth)
	api.HandleFunc("/health", sessionHandler.Health).Methods(http.MethodGet)

	// Session routes (no auth, they hand out tokens)
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/join", sessionHandler.Join).Methods(http.MethodPost)

	// Game routes (all require a bearer token)
	gameRoutes := api.PathPrefix("/game").Subrouter()
	gameRoutes.Use(middleware.RequireToken)
	gameRoutes.HandleFunc("/state", sessionHandler.State).Methods(http.MethodGet)
	gameRoutes.HandleFunc("/guess", sessionHandler.Guess).Methods(http.MethodPost)

	// Legacy routes (token in the body)
	r.HandleFunc("/create_game", compatHandler.CreateGame).Methods(http.MethodPost)
	r.HandleFunc("/join_game", compatHandler.JoinGame).Methods(http.MethodPost)
	r.HandleFunc("/get_state", compatHandler.GetState).Methods(http.MethodPost)
	r.HandleFunc("/make_guess", compatHandler.MakeGuess).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewMethodNotAllowedError())
}
