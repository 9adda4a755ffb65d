package domain

import (
	"fmt"
	"strings"
)

// Dialect identifies a target SQL database family.
type Dialect string

// String returns the canonical dialect name.
func (d Dialect) String() string {
	return string(d)
}

const (
	// DialectMySQL targets MySQL and MariaDB.
	DialectMySQL Dialect = "mysql"
	// DialectPostgreSQL targets PostgreSQL.
	DialectPostgreSQL Dialect = "postgresql"
	// DialectMSSQL targets Microsoft SQL Server.
	DialectMSSQL Dialect = "mssql"
	// DialectOracle targets Oracle Database.
	DialectOracle Dialect = "oracle"
	// DialectSQLite targets SQLite database files.
	DialectSQLite Dialect = "sqlite"
)

// ParseDialect resolves a dialect name, accepting common aliases.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql", "mariadb":
		return DialectMySQL, nil
	case "postgresql", "postgres", "pg":
		return DialectPostgreSQL, nil
	case "mssql", "sqlserver":
		return DialectMSSQL, nil
	case "oracle":
		return DialectOracle, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", NewConnectionError("", CodeUnsupportedDialect,
			fmt.Sprintf("unsupported dialect: %s", s), nil)
	}
}

// DatabaseConfig describes one connection target.
type DatabaseConfig struct {
	Dialect  Dialect                `json:"dialect"`
	Host     string                 `json:"host,omitempty"`
	Port     int                    `json:"port,omitempty"`
	Database string                 `json:"database,omitempty"`
	Username string                 `json:"username,omitempty"`
	Password string                 `json:"password,omitempty"`
	Filename string                 `json:"filename,omitempty"` // file-based dialects
	Options  map[string]interface{} `json:"options,omitempty"`
}

// Fingerprint returns the pool lookup key for this target. Two configs with
// the same fingerprint share a connection pool; the password is deliberately
// excluded so the key is safe to log.
func (c *DatabaseConfig) Fingerprint() string {
	if c.Dialect == DialectSQLite {
		return fmt.Sprintf("%s:%s", c.Dialect, c.Filename)
	}
	return fmt.Sprintf("%s:%s:%d:%s:%s", c.Dialect, c.Host, c.Port, c.Database, c.Username)
}
