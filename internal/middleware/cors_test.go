package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-planner/internal/middleware"
)

const webOrigin = "http://localhost:5173"

// trivialHandler is a minimal http.Handler that always returns 200.
var trivialHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func corsRequest(method, path, origin string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Origin", origin)
	return req
}

// ---- simple requests -------------------------------------------------------

func TestCORSHandler_GET_AllowedOrigin(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(trivialHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, corsRequest(http.MethodGet, "/trips", webOrigin))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, webOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
}

// The CSV export's filename must be readable from browser JavaScript.
func TestCORSHandler_ExposesContentDisposition(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(trivialHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, corsRequest(http.MethodGet, "/trips/abc/export?format=csv", webOrigin))

	assert.Equal(t, "Content-Disposition", rec.Header().Get("Access-Control-Expose-Headers"))
}

// A disallowed origin still gets the response, but without the CORS header
// the browser blocks it.
func TestCORSHandler_GET_DisallowedOrigin(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(trivialHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, corsRequest(http.MethodGet, "/trips", "http://evil.example.com"))

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// ---- preflight -------------------------------------------------------------

// Removing a snapshot item is a DELETE with a bearer token, which browsers
// always preflight.
func TestCORSHandler_OPTIONS_Preflight(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(trivialHandler)

	req := corsRequest(http.MethodOptions, "/trips/abc/attractions/def", webOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	// Browsers send Access-Control-Request-Headers lowercased; rs/cors
	// compares against its lowercased allow list.
	req.Header.Set("Access-Control-Request-Headers", "authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, rec.Code == http.StatusNoContent || rec.Code == http.StatusOK,
		"expected 2xx for OPTIONS preflight, got %d", rec.Code)
	assert.Equal(t, webOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodDelete, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORSHandler_OPTIONS_UnknownHeaderRejected(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(trivialHandler)

	req := corsRequest(http.MethodOptions, "/trips", webOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "x-debug-mode")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
