package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNavigationMetrics() {
	r.QueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfinder_queries_total",
			Help: "Total number of navigation queries by type and outcome",
		},
		[]string{"query_type", "status"},
	)

	r.QueryDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wayfinder_query_duration_seconds",
			Help:    "Navigation query duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"query_type"},
	)

	r.QueryNodesSettled = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wayfinder_query_nodes_settled",
			Help:    "Number of nodes settled per shortest-path search",
			Buckets: []float64{1, 5, 10, 50, 100, 1000},
		},
		[]string{"query_type"},
	)

	r.QueryEdgesRelaxed = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wayfinder_query_edges_relaxed",
			Help:    "Number of edges relaxed per shortest-path search",
			Buckets: []float64{1, 5, 10, 50, 100, 1000},
		},
		[]string{"query_type"},
	)

	r.SlowQueries = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfinder_slow_queries_total",
			Help: "Total number of slow navigation queries (>100ms)",
		},
		[]string{"query_type"},
	)

	r.AssistantQueries = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfinder_assistant_queries_total",
			Help: "Natural-language queries by detected intent",
		},
		[]string{"intent"},
	)
}
