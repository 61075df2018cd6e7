package restapi

import (
	"net/http"
	"slices"
)

// DefaultAllowedOrigins are the browser origins of the bundled dashboard.
var DefaultAllowedOrigins = []string{
	"http://localhost",
	"http://localhost:8080",
	"http://127.0.0.1:8080",
}

// WithSecurityHeaders wraps the given handler with security headers middleware
func (api *RestAPI) WithSecurityHeaders(handler http.Handler) http.Handler {
	origins := api.Config.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}
	return securityHeaders(origins, handler)
}

// securityHeaders adds security headers to every response and CORS headers
// for requests from an allowed origin. "*" in allowedOrigins allows any.
func securityHeaders(allowedOrigins []string, next http.Handler) http.Handler {
	allowAny := slices.Contains(allowedOrigins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none';")

		origin := r.Header.Get("Origin")
		if origin != "" {
			h.Add("Vary", "Origin")
			if allowAny || slices.Contains(allowedOrigins, origin) {
				if allowAny {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
				}
				h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				h.Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
