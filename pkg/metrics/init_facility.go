package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFacilityMetrics() {
	r.FacilityNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wayfinder_facility_nodes_total",
			Help: "Number of locations in the loaded facility graph",
		},
	)

	r.FacilityEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wayfinder_facility_edges_total",
			Help: "Number of undirected edges in the loaded facility graph",
		},
	)

	r.FacilityFloorsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wayfinder_facility_floors_total",
			Help: "Number of floors in the loaded facility",
		},
	)

	r.RestrictedNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wayfinder_restricted_nodes",
			Help: "Number of locations currently excluded from transit",
		},
	)

	r.RestrictionChangesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfinder_restriction_changes_total",
			Help: "Restriction overlay changes by source",
		},
		[]string{"source"}, // api, sync, startup
	)
}
