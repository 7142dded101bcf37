// File: core/adapter/state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapter

// State is the connection lifecycle state. Transitions are monotonic:
// Handshake leads either to Connected then Closed, or to Response then
// HTTPClosed. The two terminal states admit no further instructions.
type State int

const (
	// StateHandshake is the initial state; no wire response sent yet.
	StateHandshake State = iota

	// StateConnected means the upgrade was accepted and bidirectional
	// frame exchange is active.
	StateConnected

	// StateResponse means rejection headers have been committed to the
	// wire and the response body may still be streaming.
	StateResponse

	// StateClosed is terminal: the WebSocket connection ended after
	// having been connected.
	StateClosed

	// StateHTTPClosed is terminal: the exchange ended via a synthesized
	// HTTP response without ever becoming connected.
	StateHTTPClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateConnected:
		return "connected"
	case StateResponse:
		return "response"
	case StateClosed:
		return "closed"
	case StateHTTPClosed:
		return "httpclosed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further outbound instruction is legal.
func (s State) Terminal() bool {
	return s == StateClosed || s == StateHTTPClosed
}
