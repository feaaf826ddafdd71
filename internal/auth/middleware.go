package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// HeaderName is the header the dashboard frontend sets once its local
// login flag is on
const HeaderName = "X-Dashboard-Authenticated"

type contextKey string

const flagContextKey contextKey = "dashboard_authenticated"

// Middleware enforces the dashboard access flag when enabled. It is a
// placeholder for real authentication and is not a security boundary.
// /health and /metrics are never gated.
func Middleware(enabled bool, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "auth").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled || !gated(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.EqualFold(r.Header.Get(HeaderName), "true") {
				logger.Debug().Str("path", r.URL.Path).Msg("missing dashboard access flag")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}

			ctx := context.WithValue(r.Context(), flagContextKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func gated(path string) bool {
	return path == "/ws" || strings.HasPrefix(path, "/api/")
}

// Authenticated reports whether the request passed the access flag check
func Authenticated(ctx context.Context) bool {
	v, _ := ctx.Value(flagContextKey).(bool)
	return v
}
