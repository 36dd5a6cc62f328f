package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process gauges, sampled by UpdateSystemMetrics.
func (r *Registry) initSystemMetrics() {
	gauge := func(name, help string) prometheus.Gauge {
		return promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: name, Help: help,
		})
	}

	r.UptimeSeconds = gauge("uptime_seconds", "Seconds since the server started")
	r.GoRoutines = gauge("goroutines", "Live goroutines")
	r.MemoryAllocBytes = gauge("memory_alloc_bytes", "Heap bytes allocated and in use")
	r.MemorySysBytes = gauge("memory_sys_bytes", "Bytes obtained from the OS")
}
