// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with TOML loading and reload listeners.

package control

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/momentics/wsbridge/api"
)

// Config holds the runtime settings of a wsbridge instance.
type Config struct {
	// Addr is the listen address, e.g. ":9001".
	Addr string

	// RootPath is the mount prefix surfaced in connection scopes.
	RootPath string

	// ServerName is the token used for the injected server header on
	// synthesized HTTP responses.
	ServerName string

	// MaxMessageSize is the inbound message length limit in bytes,
	// applied uniformly to binary and text messages.
	MaxMessageSize int

	// EnableDeflate requests permessage-deflate on accepted upgrades.
	EnableDeflate bool
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Addr:           ":9001",
		ServerName:     "wsbridge",
		MaxMessageSize: api.DefaultMaxMessageSize,
		EnableDeflate:  true,
	}
}

type fileConfig struct {
	Addr           string `toml:"addr"`
	RootPath       string `toml:"root_path"`
	ServerName     string `toml:"server_name"`
	MaxMessageSize int64  `toml:"max_message_size"`
	EnableDeflate  bool   `toml:"enable_deflate"`
}

// LoadConfig reads a TOML file and merges it over DefaultConfig. Only
// keys present in the file override defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("addr") {
		if addr := strings.TrimSpace(raw.Addr); addr != "" {
			cfg.Addr = addr
		}
	}
	if meta.IsDefined("root_path") {
		cfg.RootPath = strings.TrimSpace(raw.RootPath)
	}
	if meta.IsDefined("server_name") {
		if name := strings.TrimSpace(raw.ServerName); name != "" {
			cfg.ServerName = name
		}
	}
	if meta.IsDefined("max_message_size") {
		if raw.MaxMessageSize < 0 {
			return Config{}, fmt.Errorf("load config: max_message_size must be non-negative, got %d", raw.MaxMessageSize)
		}
		cfg.MaxMessageSize = int(raw.MaxMessageSize)
	}
	if meta.IsDefined("enable_deflate") {
		cfg.EnableDeflate = raw.EnableDeflate
	}
	return cfg, nil
}

// ConfigStore is a thread-safe holder for the live Config with listener
// support. Connections snapshot it once at setup; a reload swaps the
// value and notifies listeners.
type ConfigStore struct {
	mu        sync.RWMutex
	cfg       Config
	listeners []func(Config)
}

// NewConfigStore initializes a store with the given settings.
func NewConfigStore(cfg Config) *ConfigStore {
	return &ConfigStore{cfg: cfg}
}

// Snapshot returns the current settings.
func (cs *ConfigStore) Snapshot() Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.cfg
}

// Reload replaces the settings and notifies listeners synchronously.
func (cs *ConfigStore) Reload(cfg Config) {
	cs.mu.Lock()
	cs.cfg = cfg
	listeners := make([]func(Config), len(cs.listeners))
	copy(listeners, cs.listeners)
	cs.mu.Unlock()
	for _, fn := range listeners {
		fn(cfg)
	}
}

// OnReload registers a listener invoked on every Reload.
func (cs *ConfigStore) OnReload(fn func(Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
