package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mcoot/semanticguess/internal/api/apierr"
	"github.com/mcoot/semanticguess/internal/middleware"
)

// Recovery creates panic recovery middleware for the API
// Returns JSON error responses on panic
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

// RateLimit rejects requests over the per-client limit with a JSON 429
func RateLimit(limiter *middleware.RateLimiter) func(http.Handler) http.Handler {
	return middleware.RateLimit(limiter, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "1")
		apierr.WriteError(w, apierr.NewRateLimitedError())
	})
}
