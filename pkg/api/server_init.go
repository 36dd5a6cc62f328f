package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/api/middleware"
	"github.com/dd0wney/cluso-wayfinder/pkg/assistant"
	"github.com/dd0wney/cluso-wayfinder/pkg/audit"
	"github.com/dd0wney/cluso-wayfinder/pkg/auth"
	"github.com/dd0wney/cluso-wayfinder/pkg/graphql"
	"github.com/dd0wney/cluso-wayfinder/pkg/health"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/metrics"
)

// DefaultMaxBodyBytes caps request bodies when Config.MaxBodyBytes is unset.
const DefaultMaxBodyBytes int64 = 1 << 20

// metricsInterval is how often system gauges are refreshed.
const metricsInterval = 15 * time.Second

// NewServer creates a new API server
func NewServer(cfg Config) (*Server, error) {
	if cfg.Navigator == nil {
		return nil, errors.New("navigator is required")
	}
	if cfg.Overlay == nil {
		return nil, errors.New("overlay manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(logging.Component("api"))

	registry := cfg.Metrics
	if registry == nil {
		registry = metrics.DefaultRegistry()
	}

	healthChecker := cfg.Health
	if healthChecker == nil {
		healthChecker = health.NewChecker()
		healthChecker.Register(health.ProbeLiveness, "api", health.Static("api"))
	}

	asst := cfg.Assistant
	if asst == nil {
		asst = assistant.New(cfg.Navigator, assistant.WithLogger(logger), assistant.WithRecorder(registry))
	}

	auditLog := cfg.Audit
	if auditLog == nil {
		auditLog = audit.NewAuditLogger(audit.DefaultBufferSize)
	}
	var auditSink audit.Logger = auditLog
	if cfg.AuditSink != nil {
		auditSink = audit.Multi{auditLog, cfg.AuditSink}
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	s := &Server{
		nav:             cfg.Navigator,
		overlay:         cfg.Overlay,
		assistant:       asst,
		metricsRegistry: registry,
		healthChecker:   healthChecker,
		corsConfig:      middleware.NewCORSConfig(cfg.AllowedOrigins),
		auditLog:        auditLog,
		auditSink:       auditSink,
		logger:          logger,
		syncPeers:       cfg.SyncPeers,
		startTime:       time.Now(),
		maxBodyBytes:    maxBody,
		tlsEnabled:      cfg.TLSEnabled,
		done:            make(chan struct{}),
	}

	if cfg.AuthSecret != "" {
		jwtManager, err := auth.NewJWTManager(cfg.AuthSecret, cfg.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT manager: %w", err)
		}
		operator, err := auth.NewOperator(cfg.OperatorUser, cfg.OperatorPasswordHash)
		if err != nil {
			return nil, fmt.Errorf("invalid operator account: %w", err)
		}
		s.jwtManager = jwtManager
		s.tokenValidator = jwtManager
		s.operator = operator
		s.authRateLimiter = middleware.NewRateLimiter(middleware.DefaultRateLimitConfig(), logger)
		logger.Info("restriction changes require an operator token",
			logging.String("operator", operator.Username()),
			logging.Duration("token_ttl", jwtManager.GetTokenDuration()))
	} else {
		logger.Warn("authentication disabled; restriction changes are open to all callers")
	}

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Navigator:  cfg.Navigator,
		Restrictor: auditedOverlay{s: s, via: "graphql"},
		Authorizer: s.authorizeContext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}
	s.graphqlHandler = graphql.NewGraphQLHandler(schema, cfg.MaxQueryDepth, logger)

	stats := cfg.Navigator.Stats()
	registry.SetFacilityStats(stats.Nodes, stats.Edges, stats.Floors)

	go s.updateMetricsPeriodically()

	return s, nil
}

// AuthEnabled reports whether restriction changes require a bearer token.
func (s *Server) AuthEnabled() bool {
	return s.jwtManager != nil
}

// Close stops background work and ends open restriction streams.
// It does not stop the HTTP listener; that belongs to the graceful server.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.authRateLimiter != nil {
			s.authRateLimiter.Stop()
		}
	})
}

// authorizeContext implements graphql.Authorizer from the claims placed in ctx
// by optionalAuth.
func (s *Server) authorizeContext(ctx context.Context) (string, error) {
	if !s.AuthEnabled() {
		return "", nil
	}
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return "", ErrUnauthorized
	}
	if !claims.CanModifyRestrictions() {
		return "", ErrForbidden
	}
	return claims.Username, nil
}
