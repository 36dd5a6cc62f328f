package api

import (
	"net/http"

	"github.com/dd0wney/cluso-wayfinder/pkg/api/middleware"
)

// panicRecoveryMiddleware recovers from panics in HTTP handlers
func (s *Server) panicRecoveryMiddleware(next http.Handler) http.Handler {
	return middleware.PanicRecovery(s.logger)(next)
}

// loggingMiddleware logs HTTP requests with timing information
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return middleware.Logging(s.logger)(next)
}

// corsMiddleware handles Cross-Origin Resource Sharing
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return middleware.CORS(s.corsConfig)(next)
}

// bodySizeLimitMiddleware limits the size of incoming request bodies
func (s *Server) bodySizeLimitMiddleware(next http.Handler) http.Handler {
	return middleware.BodySizeLimit(s.maxBodyBytes)(next)
}

// requestIDMiddleware adds a unique request ID to each request
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return middleware.RequestID()(next)
}

// securityHeadersMiddleware adds security headers to responses
func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return middleware.SecurityHeaders(&middleware.SecurityHeadersConfig{TLSEnabled: s.tlsEnabled})(next)
}

// metricsMiddleware tracks HTTP request metrics. It must wrap the mux directly.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return middleware.Metrics(s.metricsRegistry)(next)
}

// authRateLimit throttles credential exchanges per client address.
func (s *Server) authRateLimit(next http.HandlerFunc) http.HandlerFunc {
	limited := middleware.RateLimit(s.authRateLimiter, middleware.RemoteIP, func(*http.Request, string) {
		s.metricsRegistry.RecordAuthFailure()
	})(next)
	return limited.ServeHTTP
}
