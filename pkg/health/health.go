// Package health runs the probes behind /health, /health/ready and /health/live.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// worse reports whether a ranks below b.
func worse(a, b Status) bool {
	rank := map[Status]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}
	return rank[a] > rank[b]
}

// Probe selects which set of checks a request runs.
type Probe int

const (
	// ProbeHealth is the full report; degraded still answers 200.
	ProbeHealth Probe = iota
	// ProbeReadiness gates traffic: anything but healthy answers 503.
	ProbeReadiness
	// ProbeLiveness gates restarts: anything but healthy answers 503.
	ProbeLiveness
	probeCount
)

func (p Probe) String() string {
	switch p {
	case ProbeHealth:
		return "health"
	case ProbeReadiness:
		return "readiness"
	case ProbeLiveness:
		return "liveness"
	default:
		return fmt.Sprintf("probe(%d)", int(p))
	}
}

// Check is the outcome of one named check.
type Check struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	DurationMS  float64        `json:"duration_ms"`
}

// CheckFunc performs one check. It should return promptly once ctx is done.
type CheckFunc func(ctx context.Context) Check

// Response is the body of every probe endpoint.
type Response struct {
	Probe     string           `json:"probe"`
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    float64          `json:"uptime_seconds"`
}

// DefaultTimeout bounds each check when the checker is built without WithTimeout.
const DefaultTimeout = 2 * time.Second

// Checker holds the registered checks for each probe.
type Checker struct {
	mu        sync.RWMutex
	probes    [probeCount]map[string]CheckFunc
	startedAt time.Time
	timeout   time.Duration
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout bounds how long any single check may run.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewChecker creates a checker with no registered checks.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{startedAt: time.Now(), timeout: DefaultTimeout}
	for i := range c.probes {
		c.probes[i] = make(map[string]CheckFunc)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds fn under name to probe, replacing any check of the same name.
func (c *Checker) Register(probe Probe, name string, fn CheckFunc) {
	if probe < 0 || probe >= probeCount {
		panic(fmt.Sprintf("health: unknown %v", probe))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[probe][name] = fn
}

// Run executes every check of probe concurrently. The worst status wins.
// A check that panics or overruns the timeout is reported unhealthy.
func (c *Checker) Run(ctx context.Context, probe Probe) Response {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.probes[probe]))
	for name, fn := range c.probes[probe] {
		checks[name] = fn
	}
	c.mu.RUnlock()

	resp := Response{
		Probe:     probe.String(),
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(checks)),
		Uptime:    time.Since(c.startedAt).Seconds(),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, fn := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			check := c.runOne(ctx, name, fn)
			mu.Lock()
			defer mu.Unlock()
			resp.Checks[name] = check
			if worse(check.Status, resp.Status) {
				resp.Status = check.Status
			}
		}()
	}
	wg.Wait()

	return resp
}

func (c *Checker) runOne(parent context.Context, name string, fn CheckFunc) Check {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan Check, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Check{Status: StatusUnhealthy, Message: fmt.Sprintf("check panicked: %v", r)}
			}
		}()
		done <- fn(ctx)
	}()

	var check Check
	select {
	case check = <-done:
	case <-ctx.Done():
		check = Check{Status: StatusUnhealthy, Message: "check timed out"}
	}

	if check.Name == "" {
		check.Name = name
	}
	check.LastChecked = start
	check.DurationMS = float64(time.Since(start).Microseconds()) / 1000
	return check
}

// Handler serves probe as JSON.
func (c *Checker) Handler(probe Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := c.Run(r.Context(), probe)

		code := http.StatusOK
		switch {
		case resp.Status == StatusUnhealthy:
			code = http.StatusServiceUnavailable
		case resp.Status == StatusDegraded && probe != ProbeHealth:
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(resp)
	}
}
