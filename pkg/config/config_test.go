package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Transport != "stdio" || cfg.Pool.MaxPerTarget != 10 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"server": {"transport": "http", "port": 9000}, "pool": {"max_per_target": 3}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Transport != "http" || cfg.Server.Port != 9000 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Pool.MaxPerTarget != 3 {
		t.Errorf("pool = %+v", cfg.Pool)
	}
	// Untouched sections keep their defaults.
	if cfg.Audit.Capacity != 256 || cfg.Log.Level != "info" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadConfigRejectsBadTransport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server": {"transport": "grpc"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() expected error for bad transport")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadConfig() expected error for missing file")
	}
}

func TestPoolOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.PoolOptions()
	if opts.MaxPerTarget != 10 || opts.AcquireTimeout != 30*time.Second {
		t.Errorf("options = %+v", opts)
	}
	if opts.IdleTimeout != 5*time.Minute || opts.MaxLifetime != 30*time.Minute {
		t.Errorf("options = %+v", opts)
	}
}

func TestListenAddress(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ListenAddress() != "127.0.0.1:8650" {
		t.Errorf("address = %q", cfg.ListenAddress())
	}
}
