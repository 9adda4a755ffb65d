// Package config loads service configuration from JSON with sensible
// defaults for every field.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/pool"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `json:"server"`
	Pool    PoolConfig    `json:"pool"`
	Execute ExecuteConfig `json:"execute"`
	Audit   AuditConfig   `json:"audit"`
	Log     LogConfig     `json:"log"`
}

// ServerConfig controls the MCP transport.
type ServerConfig struct {
	// Transport is "stdio" or "http".
	Transport string `json:"transport"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
}

// PoolConfig tunes the connection pool manager. Durations are seconds.
type PoolConfig struct {
	MaxPerTarget   int `json:"max_per_target"`
	AcquireTimeout int `json:"acquire_timeout"`
	IdleTimeout    int `json:"idle_timeout"`
	MaxLifetime    int `json:"max_lifetime"`
	SweepInterval  int `json:"sweep_interval"`
}

// ExecuteConfig bounds individual statements.
type ExecuteConfig struct {
	// Timeout is the per-statement deadline in seconds; 0 disables it.
	Timeout int `json:"timeout"`
	// MaxRows caps result sets; 0 means unlimited.
	MaxRows int `json:"max_rows"`
}

// AuditConfig sizes the in-memory audit trail.
type AuditConfig struct {
	Capacity int `json:"capacity"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `json:"level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Transport: "stdio",
			Host:      "127.0.0.1",
			Port:      8650,
		},
		Pool: PoolConfig{
			MaxPerTarget:   10,
			AcquireTimeout: 30,
			IdleTimeout:    300,
			MaxLifetime:    1800,
			SweepInterval:  30,
		},
		Execute: ExecuteConfig{
			Timeout: 30,
			MaxRows: 10000,
		},
		Audit: AuditConfig{
			Capacity: 256,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a JSON file over the defaults. An empty path returns the
// defaults unchanged.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigOrDefault tries the SQLBRIDGE_CONFIG environment variable and
// the usual file locations, falling back to defaults.
func LoadConfigOrDefault() *Config {
	if envPath := os.Getenv("SQLBRIDGE_CONFIG"); envPath != "" {
		if config, err := LoadConfig(envPath); err == nil {
			return config
		}
	}

	possiblePaths := []string{
		"config.json",
		"./config/config.json",
		"/etc/sqlbridge/config.json",
	}
	for _, path := range possiblePaths {
		if absPath, err := filepath.Abs(path); err == nil {
			if _, statErr := os.Stat(absPath); statErr == nil {
				if config, err := LoadConfig(absPath); err == nil {
					return config
				}
			}
		}
	}

	return DefaultConfig()
}

func validateConfig(config *Config) error {
	switch config.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport: %q", config.Server.Transport)
	}
	if config.Server.Transport == "http" && (config.Server.Port < 1 || config.Server.Port > 65535) {
		return fmt.Errorf("invalid port: %d", config.Server.Port)
	}
	if config.Pool.MaxPerTarget < 1 {
		return fmt.Errorf("pool max_per_target must be positive")
	}
	if config.Pool.AcquireTimeout < 1 {
		return fmt.Errorf("pool acquire_timeout must be positive")
	}
	if config.Audit.Capacity < 1 {
		return fmt.Errorf("audit capacity must be positive")
	}
	return nil
}

// PoolOptions converts the pool section into manager options.
func (c *Config) PoolOptions() pool.Options {
	return pool.Options{
		MaxPerTarget:   c.Pool.MaxPerTarget,
		AcquireTimeout: time.Duration(c.Pool.AcquireTimeout) * time.Second,
		IdleTimeout:    time.Duration(c.Pool.IdleTimeout) * time.Second,
		MaxLifetime:    time.Duration(c.Pool.MaxLifetime) * time.Second,
		SweepInterval:  time.Duration(c.Pool.SweepInterval) * time.Second,
	}
}

// ListenAddress returns the HTTP listen address.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
