package middleware

import (
	"net/http"

	"project-pulse-backend/pkg/config"

	"github.com/go-chi/cors"
)

// CORS builds the cross-origin policy from configuration
func CORS(cfg *config.Config) func(http.Handler) http.Handler {
	corsOptions := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
			http.MethodPatch,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Requested-With",
			"Cache-Control",
			"Last-Event-ID",
		},
		ExposedHeaders: []string{
			"ETag",
			"X-Total-Count",
		},
		AllowCredentials: true,
		MaxAge:           300,
	}

	// Credentials cannot be combined with a wildcard origin
	if cfg.IsDevelopment() || (len(cfg.AllowedOrigins) > 0 && cfg.AllowedOrigins[0] == "*") {
		corsOptions.AllowedOrigins = []string{"*"}
		corsOptions.AllowCredentials = false
	}

	return cors.Handler(corsOptions)
}
