package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAuthMetrics() {
	r.AuthFailuresTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "wayfinder_auth_failures_total",
			Help: "Total number of authentication failures",
		},
	)

	r.TokensIssuedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "wayfinder_auth_tokens_issued_total",
			Help: "Total number of operator tokens issued",
		},
	)
}
