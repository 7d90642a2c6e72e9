package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/semanticguess/internal/api/apierr"
)

type contextKey string

const tokenContextKey contextKey = "token"

// RequireToken rejects requests without a bearer token and stores the token
// in the request context. Verification happens in the session registry.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			apierr.WriteError(w, apierr.NewUnauthorizedError())
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tokenContextKey, token)))
	})
}

// extractToken extracts the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetToken returns the bearer token from the request context
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
