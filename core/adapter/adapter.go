// File: core/adapter/adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The protocol adapter proper: owns the lifecycle state machine and the
// message buffer, drives the hosted application, and mediates all
// translation between wire events and application instructions.

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/momentics/wsbridge/api"
)

// Options carries the per-connection facts and settings the adapter
// cannot derive itself.
type Options struct {
	// Scheme is "ws" or "wss".
	Scheme string

	// Client and Server are the remote and local endpoints.
	Client string
	Server string

	// RootPath is surfaced in the scope unchanged.
	RootPath string

	// ServerName is the token for the injected server header on
	// synthesized HTTP responses.
	ServerName string

	// MaxMessageSize bounds one inbound message in bytes. Zero selects
	// api.DefaultMaxMessageSize.
	MaxMessageSize int

	// EnableDeflate requests permessage-deflate on accept.
	EnableDeflate bool
}

// pendingResponse stages a synthesized HTTP rejection between
// ResponseStart and the first ResponseBody. Headers become immutable the
// moment the first body chunk commits them to the wire.
type pendingResponse struct {
	status  int
	headers []api.Header
}

// Adapter translates between one wire connection and one application
// invocation. All collaborators are injected; the adapter holds no
// global state and one Adapter serves exactly one connection.
type Adapter struct {
	engine api.FrameEngine
	access api.AccessLogger
	log    zerolog.Logger
	opts   Options

	// mu serializes outbound instruction processing and guards state,
	// buffer and pending. Wire events and instructions arrive from
	// different goroutines but never interleave inside a transition.
	mu      sync.Mutex
	state   State
	buffer  *MessageBuffer
	inbound *inboundQueue
	scope   *api.Scope
	start   time.Time
	pending *pendingResponse
}

// New constructs an adapter for a single connection.
func New(engine api.FrameEngine, access api.AccessLogger, log zerolog.Logger, opts Options) *Adapter {
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = api.DefaultMaxMessageSize
	}
	if opts.ServerName == "" {
		opts.ServerName = "wsbridge"
	}
	return &Adapter{
		engine:  engine,
		access:  access,
		log:     log,
		opts:    opts,
		state:   StateHandshake,
		buffer:  NewMessageBuffer(opts.MaxMessageSize),
		inbound: newInboundQueue(),
	}
}

// State returns the current lifecycle state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Scope returns the connection scope, nil before Run.
func (a *Adapter) Scope() *api.Scope {
	return a.scope
}

// Run builds the scope from the handshake request, queues the connect
// event and drives the application to completion. It is called exactly
// once per connection and returns the application fault, if any; the
// fault is already fully handled (logged, connection resolved) when Run
// returns, so callers only observe it.
func (a *Adapter) Run(ctx context.Context, app api.App, req api.HandshakeRequest) error {
	a.start = time.Now()
	a.scope = a.buildScope(req, a.start)
	a.inbound.Put(api.Connected{})

	err := a.invoke(ctx, app)
	if err != nil && errors.Is(err, context.Canceled) {
		// External cancellation is clean termination, not a fault.
		err = nil
	}

	// Cleanup actions must succeed even when ctx is already done.
	cleanup := context.WithoutCancel(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.log.Error().Err(err).Str("state", a.state.String()).Msg("application fault")
		if a.state == StateConnected {
			if sendErr := a.engine.Send(cleanup, api.CloseConnection{Code: api.CloseAbnormalClosure}); sendErr != nil {
				a.log.Debug().Err(sendErr).Msg("abnormal close failed")
			}
			a.state = StateClosed
		}
	}

	// An application must not exit with the handshake unresolved.
	if a.state == StateHandshake {
		if sendErr := a.sendHTTPError(cleanup, http.StatusInternalServerError); sendErr != nil {
			a.log.Debug().Err(sendErr).Msg("forced 500 failed")
		}
		a.state = StateHTTPClosed
	}
	return err
}

// invoke runs the application, converting panics into faults so a
// misbehaving application can never take the adapter down with it.
func (a *Adapter) invoke(ctx context.Context, app api.App) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application panic: %v", r)
		}
	}()
	return app(ctx, a.scope, a.Receive, a.Send)
}

// Receive blocks until the next inbound event is available. It is the
// receive callable handed to the application.
func (a *Adapter) Receive(ctx context.Context) (api.InboundEvent, error) {
	return a.inbound.Get(ctx)
}

// Send validates and executes one outbound instruction. Validation is
// strict: the instruction must be legal in the current lifecycle state
// and carry a well-formed payload, otherwise a *api.ViolationError is
// returned and the instruction stream is considered poisoned.
func (a *Adapter) Send(ctx context.Context, instr api.Instruction) error {
	if instr == nil {
		return api.NewViolation(a.State().String(), "unknown")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch instr := instr.(type) {
	case api.Accept:
		if a.state != StateHandshake {
			return api.NewViolation(a.state.String(), instr.Kind())
		}
		action := api.AcceptConnection{
			Subprotocol:    instr.Subprotocol,
			Headers:        cloneHeaders(instr.Headers),
			RequestDeflate: a.opts.EnableDeflate,
		}
		if err := a.engine.Send(ctx, action); err != nil {
			return err
		}
		a.state = StateConnected
		a.access.Record(a.scope, api.ResponseSummary{Status: http.StatusSwitchingProtocols}, time.Since(a.start))
		return nil

	case api.ResponseStart:
		if a.state != StateHandshake {
			return api.NewViolation(a.state.String(), instr.Kind())
		}
		a.pending = &pendingResponse{
			status:  instr.Status,
			headers: cloneHeaders(instr.Headers),
		}
		a.access.Record(a.scope, api.ResponseSummary{Status: instr.Status, Headers: instr.Headers}, time.Since(a.start))
		return nil

	case api.ResponseBody:
		if a.state != StateHandshake && a.state != StateResponse {
			return api.NewViolation(a.state.String(), instr.Kind())
		}
		if a.pending == nil && a.state == StateHandshake {
			return api.NewViolation(a.state.String(), instr.Kind()).
				WithReason("http.response.body before http.response.start")
		}
		return a.sendRejection(ctx, instr)

	case api.Send:
		if a.state != StateConnected {
			return api.NewViolation(a.state.String(), instr.Kind())
		}
		if (instr.Bytes == nil) == (instr.Text == nil) {
			return api.NewViolation(a.state.String(), instr.Kind()).
				WithReason("payload must carry exactly one of bytes or text")
		}
		return a.engine.Send(ctx, api.DataFrame{Bytes: instr.Bytes, Text: instr.Text})

	case api.Close:
		switch a.state {
		case StateHandshake:
			if err := a.sendHTTPError(ctx, http.StatusForbidden); err != nil {
				return err
			}
			a.state = StateHTTPClosed
			return nil
		case StateConnected:
			code := instr.Code
			if code == 0 {
				code = api.CloseNormalClosure
			}
			if err := a.engine.Send(ctx, api.CloseConnection{Code: code}); err != nil {
				return err
			}
			a.state = StateClosed
			return nil
		default:
			return api.NewViolation(a.state.String(), instr.Kind())
		}

	default:
		return api.NewViolation(a.state.String(), instr.Kind())
	}
}

// HandleWireEvent translates one inbound wire event. Data frames are
// buffered until the message completes, then delivered to the
// application. A returned api.ErrFrameTooLarge is fatal: the caller must
// close the wire connection and stop feeding events.
func (a *Adapter) HandleWireEvent(ctx context.Context, ev api.WireEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch ev := ev.(type) {
	case api.BinaryFrame:
		return a.bufferFrame(ev, ev.Final)
	case api.TextFrame:
		return a.bufferFrame(ev, ev.Final)
	case api.ConnectionClosed:
		// Inert unless the connection was live.
		if a.state == StateConnected {
			a.state = StateClosed
			a.inbound.Put(api.Disconnected{Code: ev.Code})
		}
		return nil
	default:
		return nil
	}
}

func (a *Adapter) bufferFrame(ev api.WireEvent, final bool) error {
	if a.state != StateConnected {
		return nil
	}
	if err := a.buffer.Extend(ev); err != nil {
		return err
	}
	if final {
		a.inbound.Put(a.buffer.ToEvent())
		a.buffer.Clear()
	}
	return nil
}

// sendRejection commits the staged response headers on the first body
// chunk, streams the chunk, and finalizes the exchange once the body is
// complete. Bodiless statuses (1xx, 204, 304) suppress all body chunks.
func (a *Adapter) sendRejection(ctx context.Context, msg api.ResponseBody) error {
	suppress := suppressBody(a.pending.status)
	if a.state == StateHandshake {
		headers := append(cloneHeaders(a.pending.headers), a.responseHeaders()...)
		action := api.RejectConnection{
			Status:  a.pending.status,
			Headers: headers,
			HasBody: !suppress,
		}
		if err := a.engine.Send(ctx, action); err != nil {
			return err
		}
		a.state = StateResponse
	}
	if !suppress {
		if err := a.engine.Send(ctx, api.RejectData{Data: msg.Body, Final: !msg.More}); err != nil {
			return err
		}
	}
	if !msg.More {
		a.inbound.Put(api.Disconnected{})
		a.state = StateHTTPClosed
		a.pending = nil
	}
	return nil
}

// sendHTTPError emits a bodiless rejection with the given status and
// records the exchange. Used for the forced 403 and 500 paths.
func (a *Adapter) sendHTTPError(ctx context.Context, status int) error {
	action := api.RejectConnection{
		Status:  status,
		Headers: a.responseHeaders(),
	}
	if err := a.engine.Send(ctx, action); err != nil {
		return err
	}
	a.access.Record(a.scope, api.ResponseSummary{Status: status}, time.Since(a.start))
	return nil
}

// responseHeaders returns the adapter-injected headers appended to every
// synthesized HTTP response.
func (a *Adapter) responseHeaders() []api.Header {
	return []api.Header{
		{Name: "date", Value: time.Now().UTC().Format(http.TimeFormat)},
		{Name: "server", Value: a.opts.ServerName},
	}
}

// suppressBody reports whether a response status forbids a body.
func suppressBody(status int) bool {
	return status < 200 || status == http.StatusNoContent || status == http.StatusNotModified
}

func cloneHeaders(headers []api.Header) []api.Header {
	if headers == nil {
		return nil
	}
	out := make([]api.Header, len(headers))
	copy(out, headers)
	return out
}
