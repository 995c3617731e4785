package middleware

import (
	"net/http"
)

const (
	xContentTypeOptions = "X-Content-Type-Options"
	cacheControl        = "Cache-Control"
)

// Security adds essential security headers.
//
// Headers like "Strict-Transport-Security", "X-Frame-Options" or "Content-Security-Policy" are
// left to the reverse proxy, which manages them for all services at once.
func (m Middleware) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Browsers should not try to guess the Content-Type if it is not provided.
		w.Header().Set(xContentTypeOptions, "nosniff")

		// Everything this service returns is either a redirect or tied to one login attempt,
		// so none of it may be cached or replayed from browser history.
		w.Header().Set(cacheControl, "no-store, max-age=0")

		next.ServeHTTP(w, r)
	})
}
