package api

import (
	"net/http"

	"github.com/dd0wney/cluso-wayfinder/pkg/health"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the API with its middleware chain. It is built once.
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() {
		mux := http.NewServeMux()
		s.registerRoutes(mux)

		var h http.Handler = mux
		h = s.metricsMiddleware(h)
		h = s.bodySizeLimitMiddleware(h)
		h = s.corsMiddleware(h)
		h = s.securityHeadersMiddleware(h)
		h = s.loggingMiddleware(h)
		h = s.requestIDMiddleware(h)
		h = s.panicRecoveryMiddleware(h)
		s.handler = h
	})
	return s.handler
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health and metrics
	mux.HandleFunc("GET /health", s.healthChecker.Handler(health.ProbeHealth))
	mux.HandleFunc("GET /health/ready", s.healthChecker.Handler(health.ProbeReadiness))
	mux.HandleFunc("GET /health/live", s.healthChecker.Handler(health.ProbeLiveness))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metricsRegistry.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /stats", s.handleStats)

	// Navigation
	mux.HandleFunc("POST /navigate", s.handleNavigate)
	mux.HandleFunc("POST /navigate/faculty", s.handleNavigateFaculty)
	mux.HandleFunc("GET /faculty/{name}/locations", s.handleFacultyLocations)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /locations/resolve", s.handleResolve)
	mux.HandleFunc("GET /quick-access", s.handleQuickAccessList)
	mux.HandleFunc("GET /quick-access/{name}", s.handleQuickAccess)

	// Restriction overlay
	mux.HandleFunc("GET /restrictions", s.handleListRestrictions)
	mux.HandleFunc("PUT /restrictions", s.requireOperator(s.handleUpdateRestriction))
	mux.HandleFunc("GET /restrictions/stream", s.handleRestrictionStream)
	mux.HandleFunc("GET /audit", s.requireOperator(s.handleAuditLog))

	// Auth
	mux.HandleFunc("POST /auth/token", s.authRateLimit(s.handleToken))

	// Assistant and GraphQL
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.Handle("POST /graphql", s.optionalAuth(s.graphqlHandler))
}
