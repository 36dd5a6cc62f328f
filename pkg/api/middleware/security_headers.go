package middleware

import (
	"net/http"
)

// SecurityHeadersConfig holds configuration for security headers
type SecurityHeadersConfig struct {
	TLSEnabled bool // Adds HSTS when set
	// FrameAncestors is the CSP frame-ancestors source list. Kiosk shells that
	// embed the API responses in an iframe list their origin here.
	FrameAncestors string
}

// SecurityHeaders creates middleware that adds hardening headers to responses.
// The API serves JSON only, so the content security policy denies everything.
func SecurityHeaders(config *SecurityHeadersConfig) func(http.Handler) http.Handler {
	ancestors := "'none'"
	if config != nil && config.FrameAncestors != "" {
		ancestors = config.FrameAncestors
	}
	csp := "default-src 'none'; frame-ancestors " + ancestors

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Content-Security-Policy", csp)
			h.Set("Referrer-Policy", "no-referrer")
			if ancestors == "'none'" {
				h.Set("X-Frame-Options", "DENY")
			}
			if config != nil && config.TLSEnabled {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
