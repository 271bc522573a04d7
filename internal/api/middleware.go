package api

import (
	"net/http"

	"github.com/rs/cors"
)

// CorsMiddleware allows any origin when allowedOrigin is empty, otherwise
// only the configured one
func CorsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}

	if allowedOrigin == "" || allowedOrigin == "*" {
		// reflect the request origin, a wildcard is not allowed with credentials
		opts.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		opts.AllowedOrigins = []string{allowedOrigin}
	}

	return cors.New(opts).Handler
}

// HealthMiddleware answers health checks before they reach the router
func HealthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && (r.URL.Path == "/" || r.URL.Path == "/health") {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
