package http

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// paramsMiddleware handles common query parameters like 'verbose'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}
		next.ServeHTTP(w, r)
	})
}

// apiKeyMiddleware guards a route with the shared x-api-key header. A server
// deployed without an API key configured refuses every request rather than
// silently running open.
func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Cfg.APIKey == "" {
			log.Error("API_KEY is not configured, rejecting request", "url", r.URL.Path)
			writeAuthError(w, http.StatusInternalServerError, "Server configuration error")
			return
		}
		if r.Header.Get("x-api-key") != s.Cfg.APIKey {
			log.Warn("rejected request with bad API key", "url", r.URL.Path)
			writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware reflects the Origin header back when it is on the configured
// allowlist. Requests from unlisted origins are still served, they just don't
// get the CORS headers, so browsers will block them client-side.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Cfg.AllowedOrigins == "" {
			log.Error("ALLOWED_ORIGINS is not configured, rejecting request", "url", r.URL.Path)
			writeAuthError(w, http.StatusInternalServerError, "Server configuration error")
			return
		}
		origin := r.Header.Get("Origin")
		if origin != "" {
			for _, allowed := range strings.Split(s.Cfg.AllowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-api-key")
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
					break
				}
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
