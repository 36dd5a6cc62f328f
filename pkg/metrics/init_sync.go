package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSyncMetrics() {
	r.SyncEventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfinder_sync_events_total",
			Help: "Restriction change events exchanged with peers",
		},
		[]string{"direction", "status"}, // sent, received / ok, error, ignored
	)

	r.SyncPeers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wayfinder_sync_peers",
			Help: "Number of peers this instance subscribes to",
		},
	)
}
