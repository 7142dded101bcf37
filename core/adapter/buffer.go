// File: core/adapter/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// MessageBuffer accumulates one possibly-fragmented inbound message and
// enforces the configured maximum length.

package adapter

import (
	"github.com/momentics/wsbridge/api"
)

// MessageBuffer holds at most one in-progress inbound message. The first
// fragment fixes the message type (binary or text) for the buffer's
// lifetime; the frame-protocol engine guarantees type consistency across
// fragments of a single message.
type MessageBuffer struct {
	data    []byte
	text    bool
	started bool
	limit   int
}

// NewMessageBuffer creates an empty buffer with the given byte limit.
func NewMessageBuffer(limit int) *MessageBuffer {
	return &MessageBuffer{limit: limit}
}

// Extend appends one fragment. It returns api.ErrFrameTooLarge when the
// accumulated length exceeds the limit; the caller must then treat the
// connection as fatally broken and stop buffering.
func (b *MessageBuffer) Extend(ev api.WireEvent) error {
	switch ev := ev.(type) {
	case api.BinaryFrame:
		if !b.started {
			b.started = true
			b.text = false
		}
		b.data = append(b.data, ev.Data...)
	case api.TextFrame:
		if !b.started {
			b.started = true
			b.text = true
		}
		b.data = append(b.data, ev.Data...)
	default:
		return nil
	}
	if len(b.data) > b.limit {
		return api.ErrFrameTooLarge
	}
	return nil
}

// ToEvent converts the accumulated content into a delivery record with
// exactly one of the binary or text fields populated.
func (b *MessageBuffer) ToEvent() api.Received {
	if b.text {
		text := string(b.data)
		return api.Received{Text: &text}
	}
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return api.Received{Bytes: data}
}

// Clear resets the buffer to empty, ready for a message of either type.
func (b *MessageBuffer) Clear() {
	b.data = nil
	b.text = false
	b.started = false
}
