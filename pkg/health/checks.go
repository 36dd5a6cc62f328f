package health

import (
	"context"
	"runtime"
	"time"
)

// Static always reports healthy. The API registers it as its own liveness check.
func Static(name string) CheckFunc {
	return func(context.Context) Check {
		return Check{Name: name, Status: StatusHealthy}
	}
}

// FacilityCheck reports whether a facility graph is loaded and how much of it
// is restricted. More than half the nodes restricted is degraded.
func FacilityCheck(state func() (nodes, edges, restricted int)) CheckFunc {
	return func(context.Context) Check {
		nodes, edges, restricted := state()
		check := Check{
			Name: "facility",
			Details: map[string]any{
				"nodes":      nodes,
				"edges":      edges,
				"restricted": restricted,
			},
		}

		switch {
		case nodes == 0:
			check.Status, check.Message = StatusUnhealthy, "no facility loaded"
		case restricted*2 > nodes:
			check.Status, check.Message = StatusDegraded, "most locations restricted"
		default:
			check.Status, check.Message = StatusHealthy, "facility loaded"
		}
		return check
	}
}

// StoreCheck pings the restriction store.
func StoreCheck(ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) Check {
		if err := ping(ctx); err != nil {
			return Check{Name: "store", Status: StatusUnhealthy, Message: err.Error()}
		}
		return Check{Name: "store", Status: StatusHealthy, Message: "connected"}
	}
}

// SyncCheck reports restriction fan-out. A sync-enabled instance with no
// peers is degraded; a standalone instance is healthy.
func SyncCheck(state func() (enabled bool, peers int, lastEvent time.Time)) CheckFunc {
	return func(context.Context) Check {
		enabled, peers, lastEvent := state()
		check := Check{
			Name:    "sync",
			Details: map[string]any{"enabled": enabled, "peers": peers},
		}
		if !lastEvent.IsZero() {
			check.Details["last_event"] = lastEvent
		}

		switch {
		case !enabled:
			check.Status, check.Message = StatusHealthy, "standalone"
		case peers == 0:
			check.Status, check.Message = StatusDegraded, "no peers configured"
		default:
			check.Status, check.Message = StatusHealthy, "sync active"
		}
		return check
	}
}

// MemoryCheck degrades once heap allocation exceeds 90% of memory obtained
// from the OS.
func MemoryCheck(usage func() (alloc, sys uint64)) CheckFunc {
	return func(context.Context) Check {
		alloc, sys := usage()
		check := Check{
			Name:    "memory",
			Status:  StatusHealthy,
			Details: map[string]any{"alloc_bytes": alloc, "sys_bytes": sys},
		}
		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status, check.Message = StatusDegraded, "high memory usage"
		}
		return check
	}
}

// RuntimeMemory reads heap allocation and total memory obtained from the OS.
func RuntimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
