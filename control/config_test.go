package control_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/momentics/wsbridge/api"
	"github.com/momentics/wsbridge/control"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wsbridge.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
addr = ":8080"
root_path = "/ws"
max_message_size = 4096
enable_deflate = false
`)
	cfg, err := control.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.RootPath != "/ws" {
		t.Errorf("root_path = %q", cfg.RootPath)
	}
	if cfg.MaxMessageSize != 4096 {
		t.Errorf("max_message_size = %d", cfg.MaxMessageSize)
	}
	if cfg.EnableDeflate {
		t.Error("enable_deflate should be off")
	}
	// Untouched keys keep their defaults.
	if cfg.ServerName != "wsbridge" {
		t.Errorf("server_name = %q, want default", cfg.ServerName)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := control.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != control.DefaultConfig() {
		t.Errorf("empty file must yield defaults, got %+v", cfg)
	}
	if cfg.MaxMessageSize != api.DefaultMaxMessageSize {
		t.Errorf("default limit = %d", cfg.MaxMessageSize)
	}
}

func TestLoadConfigRejectsNegativeLimit(t *testing.T) {
	path := writeConfig(t, "max_message_size = -1\n")
	if _, err := control.LoadConfig(path); err == nil {
		t.Fatal("negative max_message_size must be rejected")
	}
}

func TestConfigStoreReload(t *testing.T) {
	store := control.NewConfigStore(control.DefaultConfig())

	var seen []int
	store.OnReload(func(cfg control.Config) {
		seen = append(seen, cfg.MaxMessageSize)
	})

	next := control.DefaultConfig()
	next.MaxMessageSize = 512
	store.Reload(next)

	if got := store.Snapshot().MaxMessageSize; got != 512 {
		t.Errorf("snapshot limit = %d, want 512", got)
	}
	if len(seen) != 1 || seen[0] != 512 {
		t.Errorf("listener calls = %v, want [512]", seen)
	}
}

func TestMetricsRegistry(t *testing.T) {
	mr := control.NewMetricsRegistry()
	mr.Inc(control.MetricAccepted)
	mr.Inc(control.MetricAccepted)
	mr.Add(control.MetricDelivered, 3)

	snap := mr.Snapshot()
	if snap[control.MetricAccepted] != 2 {
		t.Errorf("accepted = %d", snap[control.MetricAccepted])
	}
	if snap[control.MetricDelivered] != 3 {
		t.Errorf("delivered = %d", snap[control.MetricDelivered])
	}
}
