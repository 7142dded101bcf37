// File: adapters/access_logger.go
// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Structured access logging over zerolog.

package adapters

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/momentics/wsbridge/api"
)

// AccessLogger writes one structured event per completed exchange.
type AccessLogger struct {
	log zerolog.Logger
}

var _ api.AccessLogger = (*AccessLogger)(nil)

// NewAccessLogger wraps the given logger.
func NewAccessLogger(log zerolog.Logger) *AccessLogger {
	return &AccessLogger{log: log}
}

// Record implements api.AccessLogger.
func (l *AccessLogger) Record(scope *api.Scope, response api.ResponseSummary, elapsed time.Duration) {
	ev := l.log.Info().
		Int("status", response.Status).
		Dur("elapsed", elapsed)
	if scope != nil {
		ev = ev.
			Str("client", scope.Client).
			Str("scheme", scope.Scheme).
			Str("path", scope.Path)
		if scope.RawQuery != "" {
			ev = ev.Str("query", scope.RawQuery)
		}
	}
	ev.Msg("websocket exchange")
}
