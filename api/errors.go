// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error taxonomy for the protocol adapter. All faults here are fatal to
// their connection and never propagate past the connection boundary.

package api

import (
	"errors"
	"fmt"
)

// ErrFrameTooLarge reports an inbound message that exceeded the configured
// maximum length. The caller must close the wire connection and stop
// buffering; the condition is never recoverable.
var ErrFrameTooLarge = errors.New("inbound message exceeds maximum length")

// ViolationError reports an outbound instruction that is illegal given the
// connection's lifecycle state: an unexpected kind for the state, an
// unrecognized kind, or a malformed payload.
type ViolationError struct {
	// State is the lifecycle state at the time of the violation.
	State string
	// Kind is the offending instruction kind.
	Kind string
	// Reason optionally narrows the violation beyond state/kind.
	Reason string
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unexpected instruction %q in state %s: %s", e.Kind, e.State, e.Reason)
	}
	return fmt.Sprintf("unexpected instruction %q in state %s", e.Kind, e.State)
}

// NewViolation creates a ViolationError for the given state and kind.
func NewViolation(state, kind string) *ViolationError {
	return &ViolationError{State: state, Kind: kind}
}

// WithReason attaches a narrowing description to the violation.
func (e *ViolationError) WithReason(reason string) *ViolationError {
	e.Reason = reason
	return e
}
