// Package middleware provides HTTP middleware for the wayfinder API server.
//
// Files are organized by concern:
//
//   - recovery.go: panic recovery
//   - request_id.go: request ID generation and propagation
//   - logging.go: structured request logging
//   - metrics.go: HTTP metrics collection
//   - cors.go: Cross-Origin Resource Sharing
//   - security_headers.go: response hardening headers
//   - body_limit.go: request body size limit
//   - ratelimit.go: per-client token bucket rate limiting
//
// Every middleware has the shape func(http.Handler) http.Handler, so a chain is
// built by plain composition:
//
//	handler := middleware.Metrics(registry)(mux)
//	handler = middleware.BodySizeLimit(1 << 20)(handler)
//	handler = middleware.CORS(corsConfig)(handler)
//	handler = middleware.Logging(logger)(handler)
//	handler = middleware.RequestID()(handler)
//	handler = middleware.PanicRecovery(logger)(handler)
package middleware
