// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package api defines the abstract contracts of wsbridge: the discriminated
// wire events and wire actions exchanged with a frame-protocol engine, the
// inbound events and outbound instructions exchanged with a hosted
// application, and the capability interfaces (FrameEngine, App, AccessLogger)
// through which all external collaborators are injected.
//
// Every message family is a closed tagged union: a sealed interface with one
// struct variant per kind, dispatched by type switch. No layer of wsbridge
// inspects string-typed message keys at runtime.

package api
