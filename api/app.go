// File: api/app.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Application-facing contracts: the scope handed to a hosted application,
// the inbound event stream it consumes, and the outbound instruction
// stream it produces.

package api

import (
	"context"
	"time"
)

// Scope holds the immutable per-connection facts established at handshake
// time. Applications must treat it as read-only.
type Scope struct {
	// Scheme is "ws" or "wss".
	Scheme string

	// Path is the percent-decoded request path.
	Path string

	// RawQuery is the query string, still percent-encoded, without "?".
	RawQuery string

	// RootPath is the configured mount prefix.
	RootPath string

	// Headers is the merged header list: injected host header first,
	// then the original request headers in wire order.
	Headers []Header

	// Client and Server are the remote and local endpoints as
	// "host:port" strings.
	Client string
	Server string

	// Subprotocols lists the subprotocols the client offered.
	Subprotocols []string

	// SupportsHTTPResponse declares that the connection accepts
	// ResponseStart/ResponseBody instructions in place of Accept.
	SupportsHTTPResponse bool

	// Start is the handshake arrival time.
	Start time.Time
}

// InboundEvent is an event delivered to the hosted application.
type InboundEvent interface {
	isInboundEvent()
	Kind() string
}

// Connected signals that the handshake request has been received and the
// application may now resolve it.
type Connected struct{}

// Received delivers one complete inbound message. Exactly one of Bytes or
// Text is populated.
type Received struct {
	Bytes []byte
	Text  *string
}

// Disconnected signals that no further inbound events will arrive. Code is
// the peer's close code, or zero when the connection ended without one.
type Disconnected struct {
	Code int
}

func (Connected) isInboundEvent()    {}
func (Received) isInboundEvent()     {}
func (Disconnected) isInboundEvent() {}

func (Connected) Kind() string    { return "connect" }
func (Received) Kind() string     { return "receive" }
func (Disconnected) Kind() string { return "disconnect" }

// Instruction is an outbound instruction issued by the hosted application.
type Instruction interface {
	isInstruction()
	Kind() string
}

// Accept upgrades the handshake into a live WebSocket connection.
type Accept struct {
	Subprotocol string
	Headers     []Header
}

// Send transmits one data message. Exactly one of Bytes or Text must be
// populated; anything else is a protocol violation.
type Send struct {
	Bytes []byte
	Text  *string
}

// Close ends the exchange. During the handshake it synthesizes a 403
// rejection; once connected it closes the WebSocket with Code.
type Close struct {
	Code int
}

// ResponseStart stages a synthesized HTTP response in place of the
// upgrade. Headers are committed by the first ResponseBody.
type ResponseStart struct {
	Status  int
	Headers []Header
}

// ResponseBody streams a chunk of the synthesized response body. More
// indicates further chunks follow.
type ResponseBody struct {
	Body []byte
	More bool
}

func (Accept) isInstruction()        {}
func (Send) isInstruction()          {}
func (Close) isInstruction()         {}
func (ResponseStart) isInstruction() {}
func (ResponseBody) isInstruction()  {}

func (Accept) Kind() string        { return "accept" }
func (Send) Kind() string          { return "send" }
func (Close) Kind() string         { return "close" }
func (ResponseStart) Kind() string { return "http.response.start" }
func (ResponseBody) Kind() string  { return "http.response.body" }

// ReceiveFunc blocks until the next inbound event is available.
type ReceiveFunc func(ctx context.Context) (InboundEvent, error)

// SendFunc submits one outbound instruction. Instructions are processed
// strictly sequentially per connection.
type SendFunc func(ctx context.Context, instr Instruction) error

// App is a hosted application: one invocation per connection, driven
// through the two callables until it returns.
type App func(ctx context.Context, scope *Scope, receive ReceiveFunc, send SendFunc) error
