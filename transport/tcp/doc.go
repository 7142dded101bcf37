// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp provides the TCP listener for wsbridge with platform
// socket options applied at bind time. Timeout policy lives in the HTTP
// transport above; this layer only configures the socket.
package tcp
