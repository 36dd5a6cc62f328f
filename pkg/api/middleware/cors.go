package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig lists the browser origins allowed to call the API. "*" admits any origin.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int // seconds a preflight may be cached
}

// DefaultCORSConfig admits no origin. Kiosk front ends served from another
// origin must be listed in server.allowed_origins.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: []string{},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		MaxAge:         86400,
	}
}

// NewCORSConfig returns the default config with the given origins allowed.
func NewCORSConfig(origins []string) *CORSConfig {
	c := DefaultCORSConfig()
	c.AllowedOrigins = slices.Clone(origins)
	return c
}

// AllowsOrigin reports whether origin is listed or the wildcard is configured.
// A nil config allows nothing.
func (c *CORSConfig) AllowsOrigin(origin string) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.AllowedOrigins, "*") || slices.Contains(c.AllowedOrigins, origin)
}

// headers returns the response headers granted to an allowed origin.
func (c *CORSConfig) headers() http.Header {
	d := DefaultCORSConfig()
	methods, allowed := c.AllowedMethods, c.AllowedHeaders
	if len(methods) == 0 {
		methods = d.AllowedMethods
	}
	if len(allowed) == 0 {
		allowed = d.AllowedHeaders
	}

	h := http.Header{}
	h.Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))
	h.Set("Access-Control-Allow-Headers", strings.Join(allowed, ", "))
	if c.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if c.MaxAge > 0 {
		h.Set("Access-Control-Max-Age", strconv.Itoa(c.MaxAge))
	}
	return h
}

// CORS answers preflights itself: 204 for an allowed origin, 403 otherwise.
// Other requests always reach next; only allowed origins get CORS headers.
func CORS(config *CORSConfig) func(http.Handler) http.Handler {
	var granted http.Header
	if config != nil {
		granted = config.headers()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := origin != "" && config.AllowsOrigin(origin)

			if allowed {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				for k, v := range granted {
					h[k] = v
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				status := http.StatusForbidden
				if allowed {
					status = http.StatusNoContent
				}
				w.WriteHeader(status)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
