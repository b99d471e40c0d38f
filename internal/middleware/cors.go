// Package middleware provides reusable HTTP middleware for the travel planner API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// corsMaxAge is how long (seconds) a browser may cache a preflight result.
const corsMaxAge = 600

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
//
// Every trip and catalog mutation carries a bearer token, so Authorization is
// an allowed request header. Content-Disposition is exposed so a browser
// client can read the filename of a CSV itinerary export.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         corsMaxAge,
	})
	return c.Handler
}
