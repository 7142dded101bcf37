// File: core/adapter/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-consumer FIFO hand-off carrying inbound events from the adapter
// to the hosted application.

package adapter

import (
	"context"
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/wsbridge/api"
)

// inboundQueue is an unbounded FIFO with one consumer: the application's
// receive callable. Puts never block; Get blocks until an event arrives
// or ctx is done.
type inboundQueue struct {
	mu     sync.Mutex
	buf    *queue.Queue
	notify chan struct{}
}

func newInboundQueue() *inboundQueue {
	return &inboundQueue{
		buf:    queue.New(),
		notify: make(chan struct{}, 1),
	}
}

// Put appends an event and wakes the consumer.
func (q *inboundQueue) Put(ev api.InboundEvent) {
	q.mu.Lock()
	q.buf.Add(ev)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Get removes and returns the oldest event, blocking as needed.
func (q *inboundQueue) Get(ctx context.Context) (api.InboundEvent, error) {
	for {
		q.mu.Lock()
		if q.buf.Length() > 0 {
			ev := q.buf.Remove().(api.InboundEvent)
			q.mu.Unlock()
			return ev, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.notify:
		}
	}
}
