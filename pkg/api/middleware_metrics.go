package api

import (
	"time"
)

// updateMetricsPeriodically refreshes the system and sync gauges until Close.
func (s *Server) updateMetricsPeriodically() {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	s.refreshGauges()
	for {
		select {
		case <-ticker.C:
			s.refreshGauges()
		case <-s.done:
			return
		}
	}
}

func (s *Server) refreshGauges() {
	s.metricsRegistry.UpdateSystemMetrics(s.startTime)
	if s.syncPeers != nil {
		s.metricsRegistry.SetSyncPeers(s.syncPeers())
	}
}
