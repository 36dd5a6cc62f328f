package metrics

import (
	"runtime"
	"time"
)

// slowQueryThreshold marks navigation queries worth counting as slow.
const slowQueryThreshold = 100 * time.Millisecond

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

// IncHTTPRequestsInFlight marks the start of a request
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight marks the end of a request
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordQuery records a navigation query. It satisfies navigation.Recorder.
func (r *Registry) RecordQuery(queryType, status string, duration time.Duration, nodesScanned, edgesScanned int) {
	r.QueriesTotal.WithLabelValues(queryType, status).Inc()
	r.QueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
	r.QueryNodesSettled.WithLabelValues(queryType).Observe(float64(nodesScanned))
	r.QueryEdgesRelaxed.WithLabelValues(queryType).Observe(float64(edgesScanned))

	if duration > slowQueryThreshold {
		r.SlowQueries.WithLabelValues(queryType).Inc()
	}
}

// RecordAssistantQuery counts a natural-language query by intent
func (r *Registry) RecordAssistantQuery(intent string) {
	r.AssistantQueries.WithLabelValues(intent).Inc()
}

// SetFacilityStats publishes the size of the loaded facility graph
func (r *Registry) SetFacilityStats(nodes, edges, floors int) {
	r.FacilityNodesTotal.Set(float64(nodes))
	r.FacilityEdgesTotal.Set(float64(edges))
	r.FacilityFloorsTotal.Set(float64(floors))
}

// RecordRestrictionChange counts an overlay change and publishes the new size
func (r *Registry) RecordRestrictionChange(source string, restrictedNow int) {
	r.RestrictionChangesTotal.WithLabelValues(source).Inc()
	r.RestrictedNodesTotal.Set(float64(restrictedNow))
}

// RecordStoreOperation records a restriction store operation
func (r *Registry) RecordStoreOperation(operation, status string, duration time.Duration) {
	r.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	r.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSyncEvent counts a restriction event sent to or received from a peer
func (r *Registry) RecordSyncEvent(direction, status string) {
	r.SyncEventsTotal.WithLabelValues(direction, status).Inc()
}

// SetSyncPeers records how many peers this instance subscribes to
func (r *Registry) SetSyncPeers(n int) {
	r.SyncPeers.Set(float64(n))
}

// RecordAuthFailure counts a rejected credential or token
func (r *Registry) RecordAuthFailure() {
	r.AuthFailuresTotal.Inc()
}

// RecordTokenIssued counts an issued operator token
func (r *Registry) RecordTokenIssued() {
	r.TokensIssuedTotal.Inc()
}

// UpdateSystemMetrics samples uptime, goroutines and memory
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
