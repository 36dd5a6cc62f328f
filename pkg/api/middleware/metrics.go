package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MetricsRecorder receives per-request HTTP measurements. *metrics.Registry satisfies it.
type MetricsRecorder interface {
	RecordHTTPRequest(method, path, status string, duration time.Duration)
	RecordResponseSize(method, path string, size float64)
	IncHTTPRequestsInFlight()
	DecHTTPRequestsInFlight()
}

// Metrics labels each request with the ServeMux pattern that served it, so it
// must wrap the mux directly. Requests no pattern matched share one label.
func Metrics(recorder MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder.IncHTTPRequestsInFlight()
			defer recorder.DecHTTPRequestsInFlight()

			start := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)

			route := routeLabel(r.Pattern)
			recorder.RecordHTTPRequest(r.Method, route, strconv.Itoa(rec.status), time.Since(start))
			recorder.RecordResponseSize(r.Method, route, float64(rec.bytes))
		})
	}
}

// routeLabel strips the method from a mux pattern:
// "GET /quick-access/{name}" becomes "/quick-access/{name}".
func routeLabel(pattern string) string {
	if pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
