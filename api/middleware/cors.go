package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
}

// CORS returns middleware that allows the storefront's own origin plus local dev.
func CORS(baseURL string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   corsOrigins(baseURL),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

func corsOrigins(baseURL string) []string {
	origins := append([]string{}, defaultCORSOrigins...)
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return origins
	}
	for _, origin := range origins {
		if origin == baseURL {
			return origins
		}
	}
	return append(origins, baseURL)
}
