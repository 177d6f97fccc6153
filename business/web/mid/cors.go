package mid

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/cleggacus/cleggcoin/foundation/web"
)

// CorsConfig describes which cross-origin requests are accepted.
type CorsConfig struct {
	AllowedOrigins []string // "*" accepts any origin.
	AllowedMethods []string // Defaults to GET, POST, OPTIONS.
}

// Cors sets the response headers needed for Cross-Origin Resource Sharing.
// Requests from an origin that is not allowed get no CORS headers.
func Cors(cfg CorsConfig) web.Middleware {
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	allowMethods := strings.Join(methods, ", ")
	anyOrigin := slices.Contains(cfg.AllowedOrigins, "*")

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			origin := r.Header.Get("Origin")

			var allowOrigin string
			switch {
			case anyOrigin:
				allowOrigin = "*"
			case origin != "" && slices.Contains(cfg.AllowedOrigins, origin):
				allowOrigin = origin
				w.Header().Add("Vary", "Origin")
			}

			// Set the CORS headers to the response.
			if allowOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
				w.Header().Set("Access-Control-Allow-Methods", allowMethods)
				w.Header().Set("Access-Control-Allow-Headers", "Origin, Accept, Content-Type, Content-Length, Accept-Encoding")
			}

			// Call the next handler.
			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
