package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every series this package registers.
const namespace = "wayfinder"

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Navigation Metrics
	QueriesTotal      *prometheus.CounterVec
	QueryDuration     *prometheus.HistogramVec
	QueryNodesSettled *prometheus.HistogramVec
	QueryEdgesRelaxed *prometheus.HistogramVec
	SlowQueries       *prometheus.CounterVec
	AssistantQueries  *prometheus.CounterVec

	// Facility Metrics
	FacilityNodesTotal      prometheus.Gauge
	FacilityEdgesTotal      prometheus.Gauge
	FacilityFloorsTotal     prometheus.Gauge
	RestrictedNodesTotal    prometheus.Gauge
	RestrictionChangesTotal *prometheus.CounterVec

	// Restriction Store Metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec

	// Sync Metrics
	SyncEventsTotal *prometheus.CounterVec
	SyncPeers       prometheus.Gauge

	// Auth Metrics
	AuthFailuresTotal prometheus.Counter
	TokensIssuedTotal prometheus.Counter

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initNavigationMetrics()
	r.initFacilityMetrics()
	r.initStoreMetrics()
	r.initSyncMetrics()
	r.initAuthMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
