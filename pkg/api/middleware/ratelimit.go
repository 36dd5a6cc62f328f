package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
)

// RateLimitConfig sets the per-client token bucket and how many clients are tracked.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	CleanupInterval   time.Duration
	ClientExpiration  time.Duration // idle clients older than this are forgotten
	MaxClients        int           // 0 means unbounded
}

// DefaultRateLimitConfig returns limits suited to credential endpoints: a
// handful of attempts, then one every few seconds.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 0.2,
		BurstSize:         5,
		CleanupInterval:   5 * time.Minute,
		ClientExpiration:  10 * time.Minute,
		MaxClients:        10000,
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one rate.Limiter per client id.
type RateLimiter struct {
	config   RateLimitConfig
	limit    rate.Limit
	mu       sync.Mutex
	clients  map[string]*client
	stopChan chan struct{}
	stopOnce sync.Once
	logger   logging.Logger
	now      func() time.Time
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
// Call Stop to release it.
func NewRateLimiter(config *RateLimitConfig, logger logging.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	rl := &RateLimiter{
		config:   *config,
		limit:    rate.Limit(config.RequestsPerSecond),
		clients:  make(map[string]*client),
		stopChan: make(chan struct{}),
		logger:   logger.With(logging.Component("ratelimit")),
		now:      time.Now,
	}
	go rl.cleanupLoop()
	return rl
}

// Allow spends one token for clientID. A client first seen after MaxClients
// is reached is refused.
func (rl *RateLimiter) Allow(clientID string) bool {
	ok, _ := rl.take(clientID)
	return ok
}

// take reports whether a token was spent and, if not, how long until one is free.
func (rl *RateLimiter) take(clientID string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[clientID]
	if !ok {
		if rl.config.MaxClients > 0 && len(rl.clients) >= rl.config.MaxClients {
			rl.logger.Warn("max clients reached, rejecting new client",
				logging.Int("max_clients", rl.config.MaxClients),
				logging.String("client", clientID))
			return false, rl.config.CleanupInterval
		}
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.config.BurstSize)}
		rl.clients[clientID] = c
	}
	c.lastSeen = now

	if c.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := c.limiter.ReserveN(now, 1)
	defer r.CancelAt(now)
	if !r.OK() {
		return false, time.Second
	}
	return false, r.DelayFrom(now)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopChan:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.config.ClientExpiration)

	rl.mu.Lock()
	removed := 0
	for id, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, id)
			removed++
		}
	}
	rl.mu.Unlock()

	if removed > 0 {
		rl.logger.Debug("expired clients removed", logging.Count(removed))
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// ClientIDFunc is a function that extracts a client identifier from a request
type ClientIDFunc func(*http.Request) string

// RemoteIP identifies clients by the host part of RemoteAddr. Forwarding headers
// are ignored since they are client controlled.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit answers 429 with Retry-After once a client has spent its burst.
// onLimited, when set, is called before the response is written.
func RateLimit(limiter *RateLimiter, getClientID ClientIDFunc, onLimited func(r *http.Request, clientID string)) func(http.Handler) http.Handler {
	if getClientID == nil {
		getClientID = RemoteIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientID := getClientID(r)
			ok, wait := limiter.take(clientID)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			limiter.logger.Warn("rate limit exceeded",
				logging.String("client", clientID),
				logging.Path(r.URL.Path))
			if onLimited != nil {
				onLimited(r, clientID)
			}

			secs := max(int(wait.Seconds()+0.5), 1)
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
		})
	}
}
