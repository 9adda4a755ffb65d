package sqlcommon

import (
	"encoding/json"
	"fmt"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// Options holds connection tuning shared by the database/sql drivers.
// It is decoded from DatabaseConfig.Options, so callers pass it the same
// way regardless of dialect.
type Options struct {
	MaxOpenConns    int `json:"max_open_conns,omitempty"`
	MaxIdleConns    int `json:"max_idle_conns,omitempty"`
	ConnMaxLifetime int `json:"conn_max_lifetime,omitempty"`  // seconds
	ConnMaxIdleTime int `json:"conn_max_idle_time,omitempty"` // seconds

	SSLMode     string `json:"ssl_mode,omitempty"`
	SSLCert     string `json:"ssl_cert,omitempty"`
	SSLKey      string `json:"ssl_key,omitempty"`
	SSLRootCert string `json:"ssl_root_cert,omitempty"`

	// MySQL
	Charset   string `json:"charset,omitempty"`
	Collation string `json:"collation,omitempty"`

	// PostgreSQL
	Schema string `json:"schema,omitempty"`

	// Oracle
	ServiceName string `json:"service_name,omitempty"`

	// MSSQL
	Instance string `json:"instance,omitempty"`

	ConnectTimeout int `json:"connect_timeout,omitempty"` // seconds
}

// ParseOptions extracts Options from DatabaseConfig.Options and applies
// defaults.
func ParseOptions(config *domain.DatabaseConfig) (*Options, error) {
	opts := &Options{}

	if config.Options != nil {
		data, err := json.Marshal(config.Options)
		if err != nil {
			return nil, fmt.Errorf("marshal options: %w", err)
		}
		if err := json.Unmarshal(data, opts); err != nil {
			return nil, fmt.Errorf("unmarshal connection options: %w", err)
		}
	}

	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 25
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = 300
	}
	if opts.ConnMaxIdleTime <= 0 {
		opts.ConnMaxIdleTime = 60
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10
	}
	if opts.Charset == "" {
		opts.Charset = "utf8mb4"
	}
	if opts.Collation == "" {
		opts.Collation = "utf8mb4_unicode_ci"
	}
	if opts.Schema == "" {
		opts.Schema = "public"
	}
	if opts.SSLMode == "" {
		opts.SSLMode = "disable"
	}

	return opts, nil
}
