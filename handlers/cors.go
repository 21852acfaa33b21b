package handlers

import (
	"net/http"

	"github.com/rs/cors"
)

// WithCORS wraps a route with its own preflight policy. The allowed verb set
// varies per route; headers and max age are shared by all of them.
func WithCORS(h http.Handler, methods ...string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       methods,
		AllowedHeaders:       []string{"Content-Type", "X-User-Id"},
		MaxAge:               86400,
		OptionsSuccessStatus: http.StatusOK,
	})

	return c.Handler(h)
}
