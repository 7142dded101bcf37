// File: api/engine.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "context"

// FrameEngine abstracts the wire framing layer. Implementations own
// byte-level parsing and serialization; the adapter only ever sees the
// discriminated events and actions of this package.
type FrameEngine interface {
	// Send emits one wire action. It may block on transport
	// backpressure and honors ctx cancellation.
	Send(ctx context.Context, action WireAction) error

	// Receive blocks until the next wire event. The first event of a
	// connection is always a HandshakeRequest. Receive returns io.EOF
	// once no further events can arrive.
	Receive(ctx context.Context) (WireEvent, error)
}
