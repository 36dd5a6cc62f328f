package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/api/middleware"
	"github.com/dd0wney/cluso-wayfinder/pkg/assistant"
	"github.com/dd0wney/cluso-wayfinder/pkg/audit"
	"github.com/dd0wney/cluso-wayfinder/pkg/auth"
	"github.com/dd0wney/cluso-wayfinder/pkg/graphql"
	"github.com/dd0wney/cluso-wayfinder/pkg/health"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/metrics"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
)

// Config wires the server to the rest of the process. Navigator and Overlay are
// required; everything else has a usable default.
type Config struct {
	Navigator *navigation.Navigator
	Overlay   *overlay.Manager
	Assistant *assistant.Assistant
	Health    *health.Checker
	Metrics   *metrics.Registry
	Logger    logging.Logger

	// Audit keeps recent restriction and login events for GET /audit.
	// AuditSink, when set, receives every event as well.
	Audit     *audit.AuditLogger
	AuditSink audit.Logger

	// Auth is disabled when AuthSecret is empty: restriction changes are then
	// open to every caller.
	AuthSecret           string
	OperatorUser         string
	OperatorPasswordHash string
	TokenTTL             time.Duration

	AllowedOrigins []string
	MaxBodyBytes   int64
	MaxQueryDepth  int
	TLSEnabled     bool

	// SyncPeers reports the number of replication peers for the metrics gauge.
	SyncPeers func() int
}

// Server represents the HTTP API server
type Server struct {
	nav             *navigation.Navigator
	overlay         *overlay.Manager
	assistant       *assistant.Assistant
	graphqlHandler  *graphql.GraphQLHandler
	jwtManager      *auth.JWTManager // nil when auth is disabled
	operator        *auth.Operator
	tokenValidator  auth.TokenValidator
	metricsRegistry *metrics.Registry
	healthChecker   *health.Checker
	corsConfig      *middleware.CORSConfig
	authRateLimiter *middleware.RateLimiter // brute-force guard for /auth/token
	auditLog        *audit.AuditLogger
	auditSink       audit.Logger
	logger          logging.Logger
	syncPeers       func() int
	startTime       time.Time
	maxBodyBytes    int64
	tlsEnabled      bool

	handlerOnce sync.Once
	handler     http.Handler

	closeOnce sync.Once
	done      chan struct{}
}
