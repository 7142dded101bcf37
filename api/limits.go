// File: api/limits.go
// Author: momentics <momentics@gmail.com>

package api

// DefaultMaxMessageSize bounds one inbound application message when no
// explicit limit is configured.
const DefaultMaxMessageSize = 1 << 20 // 1 MiB
