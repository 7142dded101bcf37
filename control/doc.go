// control/doc.go
// Author: momentics <momentics@gmail.com>
//
// Package control holds runtime configuration and the metrics registry
// for wsbridge. Configuration merges programmatic defaults with an
// optional TOML file and supports reload listeners for values read at
// connection setup.

package control
