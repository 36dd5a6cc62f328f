package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal not initialized")
	}
	if r.QueriesTotal == nil {
		t.Error("QueriesTotal not initialized")
	}
	if r.RestrictedNodesTotal == nil {
		t.Error("RestrictedNodesTotal not initialized")
	}
	if r.SyncEventsTotal == nil {
		t.Error("SyncEventsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordHTTPRequest("POST", "/navigate", "200", 100*time.Millisecond)
	r.RecordHTTPRequest("GET", "/search", "200", 200*time.Millisecond)
	r.RecordHTTPRequest("POST", "/navigate", "404", 50*time.Millisecond)

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues("POST", "/navigate", "200")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if v := counterValue(t, counter); v != 1 {
		t.Errorf("Counter value = %v, want 1", v)
	}
}

func TestHTTPInFlightAndResponseSize(t *testing.T) {
	r := NewRegistry()

	r.IncHTTPRequestsInFlight()
	r.IncHTTPRequestsInFlight()
	r.DecHTTPRequestsInFlight()
	if v := gaugeValue(t, r.HTTPRequestsInFlight); v != 1 {
		t.Errorf("HTTPRequestsInFlight = %v, want 1", v)
	}

	r.RecordResponseSize("GET", "/search", 512)
	r.RecordResponseSize("GET", "/search", 1024)

	observer, err := r.HTTPResponseSizeBytes.GetMetricWithLabelValues("GET", "/search")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := observer.(prometheus.Metric).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.Histogram.GetSampleCount(); got != 2 {
		t.Errorf("Sample count = %d, want 2", got)
	}
	if got := metric.Histogram.GetSampleSum(); got != 1536 {
		t.Errorf("Sample sum = %v, want 1536", got)
	}
}

func TestRecordQuery(t *testing.T) {
	r := NewRegistry()

	r.RecordQuery("navigate", "ok", 50*time.Microsecond, 12, 30)
	r.RecordQuery("navigate", "ok", 80*time.Microsecond, 8, 20)
	r.RecordQuery("navigate", "no_path", 2*time.Millisecond, 40, 90)

	counter, err := r.QueriesTotal.GetMetricWithLabelValues("navigate", "ok")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if v := counterValue(t, counter); v != 2 {
		t.Errorf("Query counter = %v, want 2", v)
	}

	hist, err := r.QueryNodesSettled.GetMetricWithLabelValues("navigate")
	if err != nil {
		t.Fatalf("Failed to get histogram: %v", err)
	}
	var metric dto.Metric
	if err := hist.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("Sample count = %v, want 3", metric.Histogram.GetSampleCount())
	}
	if metric.Histogram.GetSampleSum() != 60 {
		t.Errorf("Sample sum = %v, want 60", metric.Histogram.GetSampleSum())
	}
}

func TestSlowQueries(t *testing.T) {
	r := NewRegistry()

	r.RecordQuery("faculty", "ok", time.Millisecond, 1, 1)
	r.RecordQuery("faculty", "ok", 250*time.Millisecond, 1, 1)

	counter, _ := r.SlowQueries.GetMetricWithLabelValues("faculty")
	if v := counterValue(t, counter); v != 1 {
		t.Errorf("Slow queries = %v, want 1", v)
	}
}

func TestFacilityAndRestrictionMetrics(t *testing.T) {
	r := NewRegistry()

	r.SetFacilityStats(23, 22, 4)
	r.RecordRestrictionChange("api", 1)
	r.RecordRestrictionChange("sync", 2)
	r.RecordRestrictionChange("api", 1)

	tests := []struct {
		name     string
		gauge    prometheus.Gauge
		expected float64
	}{
		{"FacilityNodesTotal", r.FacilityNodesTotal, 23},
		{"FacilityEdgesTotal", r.FacilityEdgesTotal, 22},
		{"FacilityFloorsTotal", r.FacilityFloorsTotal, 4},
		{"RestrictedNodesTotal", r.RestrictedNodesTotal, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v := gaugeValue(t, tt.gauge); v != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, v, tt.expected)
			}
		})
	}

	api, _ := r.RestrictionChangesTotal.GetMetricWithLabelValues("api")
	if v := counterValue(t, api); v != 2 {
		t.Errorf("api restriction changes = %v, want 2", v)
	}
}

func TestStoreAndSyncMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordStoreOperation("set", "success", 3*time.Millisecond)
	r.RecordStoreOperation("set", "error", 1*time.Millisecond)
	r.RecordSyncEvent("sent", "ok")
	r.RecordSyncEvent("received", "ignored")
	r.RecordSyncEvent("received", "ignored")

	set, _ := r.StoreOperationsTotal.GetMetricWithLabelValues("set", "error")
	if v := counterValue(t, set); v != 1 {
		t.Errorf("store set errors = %v, want 1", v)
	}

	ignored, _ := r.SyncEventsTotal.GetMetricWithLabelValues("received", "ignored")
	if v := counterValue(t, ignored); v != 2 {
		t.Errorf("ignored sync events = %v, want 2", v)
	}

	r.SetSyncPeers(3)
	if v := gaugeValue(t, r.SyncPeers); v != 3 {
		t.Errorf("SyncPeers = %v, want 3", v)
	}
}

func TestAuthMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordAuthFailure()
	r.RecordAuthFailure()
	r.RecordTokenIssued()

	if v := counterValue(t, r.AuthFailuresTotal); v != 2 {
		t.Errorf("AuthFailuresTotal = %v, want 2", v)
	}
	if v := counterValue(t, r.TokensIssuedTotal); v != 1 {
		t.Errorf("TokensIssuedTotal = %v, want 1", v)
	}
}

func TestSystemMetrics(t *testing.T) {
	r := NewRegistry()

	r.UpdateSystemMetrics(time.Now().Add(-time.Hour))

	if v := gaugeValue(t, r.UptimeSeconds); v < 3600 {
		t.Errorf("UptimeSeconds = %v, want >= 3600", v)
	}
	if v := gaugeValue(t, r.GoRoutines); v < 1 {
		t.Errorf("GoRoutines = %v, want >= 1", v)
	}
	if v := gaugeValue(t, r.MemorySysBytes); v <= 0 {
		t.Errorf("MemorySysBytes = %v, want > 0", v)
	}
}

func TestGetPrometheusRegistry(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	if promRegistry == nil {
		t.Fatal("GetPrometheusRegistry() returned nil")
	}

	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	if len(metrics) == 0 {
		t.Error("No metrics registered")
	}

	expectedMetrics := []string{
		"wayfinder_facility_nodes_total",
		"wayfinder_restricted_nodes",
		"wayfinder_uptime_seconds",
	}

	metricNames := make(map[string]bool)
	for _, m := range metrics {
		metricNames[m.GetName()] = true
	}

	for _, expected := range expectedMetrics {
		if !metricNames[expected] {
			t.Errorf("Expected metric %s not found", expected)
		}
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.RecordQuery("navigate", "ok", 10*time.Microsecond, 5, 9)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	counter, err := r.QueriesTotal.GetMetricWithLabelValues("navigate", "ok")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if v := counterValue(t, counter); v != 1000 {
		t.Errorf("Counter = %v, want 1000", v)
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	for _, m := range metrics {
		name := m.GetName()
		if !strings.HasPrefix(name, "wayfinder_") {
			t.Errorf("Metric %s does not have wayfinder_ prefix", name)
		}
	}
}

func BenchmarkRecordQuery(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordQuery("navigate", "ok", 10*time.Microsecond, 12, 30)
	}
}

func BenchmarkRecordHTTPRequest(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordHTTPRequest("POST", "/navigate", "200", 10*time.Millisecond)
	}
}
