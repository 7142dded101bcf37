// File: server/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-connection driver. Each upgrade request gets its own frame engine
// and protocol adapter; two goroutines drive the connection, one reading
// wire events and one running the hosted application.

package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/wsbridge/adapters"
	"github.com/momentics/wsbridge/api"
	"github.com/momentics/wsbridge/control"
	"github.com/momentics/wsbridge/core/adapter"
)

// Server hosts one application behind the protocol adapter. It is a
// plain http.Handler so it composes with any mux or middleware.
type Server struct {
	app     api.App
	store   *control.ConfigStore
	access  api.AccessLogger
	log     zerolog.Logger
	metrics *control.MetricsRegistry
}

// New builds a Server. The metrics registry may be shared across
// servers; the config store is snapshotted once per connection.
func New(app api.App, store *control.ConfigStore, access api.AccessLogger, log zerolog.Logger, metrics *control.MetricsRegistry) *Server {
	return &Server{
		app:     app,
		store:   store,
		access:  access,
		log:     log,
		metrics: metrics,
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "websocket upgrade required", http.StatusBadRequest)
		return
	}

	cfg := s.store.Snapshot()
	engine := adapters.NewGorillaEngine(w, r)

	scheme := "ws"
	if r.TLS != nil {
		scheme = "wss"
	}
	ad := adapter.New(engine, s.access, s.log, adapter.Options{
		Scheme:         scheme,
		Client:         r.RemoteAddr,
		Server:         localAddr(r),
		RootPath:       cfg.RootPath,
		ServerName:     cfg.ServerName,
		MaxMessageSize: cfg.MaxMessageSize,
		EnableDeflate:  cfg.EnableDeflate,
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	first, err := engine.Receive(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("handshake receive failed")
		return
	}
	handshake, ok := first.(api.HandshakeRequest)
	if !ok {
		s.log.Error().Msg("engine produced a non-handshake first event")
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		defer engine.Close()
		fault := ad.Run(ctx, s.app, handshake)
		if fault != nil {
			s.metrics.Inc(control.MetricFaulted)
		}
		s.countDisposition(ad.State())
		return nil
	})
	g.Go(func() error {
		return s.wireLoop(ctx, engine, ad)
	})
	if err := g.Wait(); err != nil {
		s.log.Debug().Err(err).Msg("connection ended with error")
	}
}

// wireLoop feeds wire events to the adapter until the stream ends. All
// faults are resolved here; nothing propagates past the connection.
func (s *Server) wireLoop(ctx context.Context, engine *adapters.GorillaEngine, ad *adapter.Adapter) error {
	for {
		ev, err := engine.Receive(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := ad.HandleWireEvent(ctx, ev); err != nil {
			if errors.Is(err, api.ErrFrameTooLarge) {
				s.log.Warn().Str("client", ad.Scope().Client).Msg("inbound message too large")
				_ = engine.Send(ctx, api.CloseConnection{Code: api.CloseMessageTooBig})
				return nil
			}
			return err
		}
		switch ev := ev.(type) {
		case api.BinaryFrame:
			if ev.Final {
				s.metrics.Inc(control.MetricDelivered)
			}
		case api.TextFrame:
			if ev.Final {
				s.metrics.Inc(control.MetricDelivered)
			}
		case api.ConnectionClosed:
			return nil
		}
	}
}

func (s *Server) countDisposition(st adapter.State) {
	switch st {
	case adapter.StateConnected, adapter.StateClosed:
		s.metrics.Inc(control.MetricAccepted)
	default:
		s.metrics.Inc(control.MetricRejected)
	}
}

// localAddr resolves the server endpoint for the scope.
func localAddr(r *http.Request) string {
	if addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok {
		return addr.String()
	}
	return r.Host
}
