//go:build !linux
// +build !linux

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package tcp

// setSocketOptions is a no-op on platforms without tuned socket options.
func setSocketOptions(uintptr) error {
	return nil
}
