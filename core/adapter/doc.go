// File: core/adapter/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package adapter implements the bidirectional protocol adapter between a
// frame-protocol engine and a hosted application. It owns the connection
// lifecycle state machine, buffers fragmented inbound messages, and
// validates every outbound instruction against the lifecycle before any
// wire action is emitted.

package adapter
