// File: api/logger.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "time"

// ResponseSummary describes the final response disposition of a
// connection: 101 for an accepted upgrade, or the rejection status.
type ResponseSummary struct {
	Status  int
	Headers []Header
}

// AccessLogger receives one completed-exchange record per connection,
// at the moment the response disposition becomes known. Implementations
// must be fire-and-forget: Record never returns an error and must not
// block the connection.
type AccessLogger interface {
	Record(scope *Scope, response ResponseSummary, elapsed time.Duration)
}
