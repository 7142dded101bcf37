// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Connection-level counters in a thread-safe registry.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry aggregates per-instance connection counters.
type MetricsRegistry struct {
	mu      sync.RWMutex
	counts  map[string]int64
	updated time.Time
}

// Counter keys used by the server.
const (
	MetricAccepted  = "connections.accepted"
	MetricRejected  = "connections.rejected"
	MetricFaulted   = "connections.faulted"
	MetricDelivered = "messages.delivered"
)

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counts: make(map[string]int64),
	}
}

// Inc adds one to a counter.
func (mr *MetricsRegistry) Inc(key string) {
	mr.Add(key, 1)
}

// Add increments a counter by delta.
func (mr *MetricsRegistry) Add(key string, delta int64) {
	mr.mu.Lock()
	mr.counts[key] += delta
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Snapshot returns a copy of all counters.
func (mr *MetricsRegistry) Snapshot() map[string]int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]int64, len(mr.counts))
	for k, v := range mr.counts {
		out[k] = v
	}
	return out
}
