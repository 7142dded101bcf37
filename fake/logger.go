// Package fake
// Author: momentics <momentics@gmail.com>

package fake

import (
	"sync"
	"time"

	"github.com/momentics/wsbridge/api"
)

// AccessRecord is one captured access-log entry.
type AccessRecord struct {
	Scope    *api.Scope
	Response api.ResponseSummary
	Elapsed  time.Duration
}

// AccessRecorder is an api.AccessLogger that captures records in memory.
type AccessRecorder struct {
	mu      sync.Mutex
	records []AccessRecord
}

var _ api.AccessLogger = (*AccessRecorder)(nil)

// NewAccessRecorder creates an empty recorder.
func NewAccessRecorder() *AccessRecorder {
	return &AccessRecorder{}
}

// Record implements api.AccessLogger.
func (r *AccessRecorder) Record(scope *api.Scope, response api.ResponseSummary, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, AccessRecord{Scope: scope, Response: response, Elapsed: elapsed})
}

// Records returns a copy of all captured entries.
func (r *AccessRecorder) Records() []AccessRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AccessRecord, len(r.records))
	copy(out, r.records)
	return out
}
