// File: api/wire.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Wire-level event and action unions exchanged with the frame-protocol
// engine. Events flow engine→adapter, actions flow adapter→engine. The
// engine owns all byte-level framing; these types never carry raw frames.

package api

// Header is a single header pair. Order and duplicates are significant,
// so headers travel as slices, never maps.
type Header struct {
	Name  string
	Value string
}

// WireEvent is an event produced by the frame-protocol engine.
type WireEvent interface {
	isWireEvent()
}

// HandshakeRequest is the initial HTTP Upgrade request for a connection.
type HandshakeRequest struct {
	// Target is the raw request target, path plus optional query string.
	Target       string
	Host         string
	Headers      []Header
	Subprotocols []string
}

// BinaryFrame carries one fragment of a binary message.
type BinaryFrame struct {
	Data  []byte
	Final bool
}

// TextFrame carries one fragment of a text message.
type TextFrame struct {
	Data  string
	Final bool
}

// ConnectionClosed reports that the peer closed the wire connection.
// Code is zero when the peer supplied no close code.
type ConnectionClosed struct {
	Code int
}

func (HandshakeRequest) isWireEvent() {}
func (BinaryFrame) isWireEvent()      {}
func (TextFrame) isWireEvent()        {}
func (ConnectionClosed) isWireEvent() {}

// WireAction is an instruction for the frame-protocol engine.
type WireAction interface {
	isWireAction()
}

// AcceptConnection completes the handshake with a 101 response.
type AcceptConnection struct {
	Subprotocol string
	Headers     []Header
	// RequestDeflate asks the engine to offer permessage-deflate. The
	// negotiation itself is the engine's concern.
	RequestDeflate bool
}

// RejectConnection substitutes a plain HTTP response for the upgrade.
// When HasBody is set, one or more RejectData actions follow.
type RejectConnection struct {
	Status  int
	Headers []Header
	HasBody bool
}

// RejectData carries one chunk of a rejection response body.
type RejectData struct {
	Data  []byte
	Final bool
}

// DataFrame sends one complete data message. Exactly one of Bytes or Text
// is populated.
type DataFrame struct {
	Bytes []byte
	Text  *string
}

// CloseConnection closes an established WebSocket connection.
type CloseConnection struct {
	Code int
}

func (AcceptConnection) isWireAction() {}
func (RejectConnection) isWireAction() {}
func (RejectData) isWireAction()       {}
func (DataFrame) isWireAction()        {}
func (CloseConnection) isWireAction()  {}
