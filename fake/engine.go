// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the core interfaces.

package fake

import (
	"context"
	"io"
	"sync"

	"github.com/momentics/wsbridge/api"
)

// Engine is a scripted api.FrameEngine. Tests push wire events with Push,
// then inspect the actions the adapter emitted.
type Engine struct {
	mu      sync.Mutex
	actions []api.WireAction
	events  chan api.WireEvent

	// SendErr, when set, is returned by every Send call.
	SendErr error
}

var _ api.FrameEngine = (*Engine)(nil)

// NewEngine creates an engine with room for the scripted events.
func NewEngine() *Engine {
	return &Engine{
		events: make(chan api.WireEvent, 64),
	}
}

// Push enqueues one wire event for Receive.
func (e *Engine) Push(ev api.WireEvent) {
	e.events <- ev
}

// Finish makes subsequent Receive calls return io.EOF once the queued
// events are drained.
func (e *Engine) Finish() {
	close(e.events)
}

// Send implements api.FrameEngine.Send by recording the action.
func (e *Engine) Send(_ context.Context, action api.WireAction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.SendErr != nil {
		return e.SendErr
	}
	e.actions = append(e.actions, action)
	return nil
}

// Receive implements api.FrameEngine.Receive from the scripted queue.
func (e *Engine) Receive(ctx context.Context) (api.WireEvent, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev, ok := <-e.events:
		if !ok {
			return nil, io.EOF
		}
		return ev, nil
	}
}

// Actions returns a copy of all recorded wire actions.
func (e *Engine) Actions() []api.WireAction {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]api.WireAction, len(e.actions))
	copy(out, e.actions)
	return out
}
