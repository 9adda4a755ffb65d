// Package mysql provides the MySQL and MariaDB adapter.
package mysql

import (
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/server/adapter/sqlcommon"
)

// Driver implements sqlcommon.Driver for MySQL.
type Driver struct{}

func (d *Driver) Dialect() domain.Dialect { return domain.DialectMySQL }

func (d *Driver) DriverName() string { return "mysql" }

func (d *Driver) BuildDSN(config *domain.DatabaseConfig, opts *sqlcommon.Options) (string, error) {
	port := config.Port
	if port <= 0 {
		port = 3306
	}

	cfg := mysqldriver.NewConfig()
	cfg.User = config.Username
	cfg.Passwd = config.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", config.Host, port)
	cfg.DBName = config.Database
	cfg.AllowNativePasswords = true
	cfg.Collation = opts.Collation
	cfg.ParseTime = true
	cfg.Params = map[string]string{
		"charset": opts.Charset,
	}

	if opts.ConnectTimeout > 0 {
		cfg.Timeout = time.Duration(opts.ConnectTimeout) * time.Second
	}

	switch strings.ToLower(opts.SSLMode) {
	case "true", "required", "require":
		cfg.TLSConfig = "true"
	case "skip-verify", "preferred":
		cfg.TLSConfig = "skip-verify"
	case "false", "disable", "":
		cfg.TLSConfig = "false"
	default:
		cfg.TLSConfig = opts.SSLMode
	}

	return cfg.FormatDSN(), nil
}

func (d *Driver) TablesQuery() (string, []interface{}) {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'", nil
}

func (d *Driver) ColumnsQuery(table string) (string, []interface{}) {
	return `SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_KEY, COLUMN_DEFAULT, EXTRA
FROM INFORMATION_SCHEMA.COLUMNS
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`, []interface{}{table}
}

func (d *Driver) ParseColumn(row domain.Row) domain.ColumnInfo {
	return sqlcommon.ParseInformationSchemaColumn(row, d.MapColumnType)
}

func (d *Driver) MapColumnType(dbTypeName string) string {
	t := strings.ToLower(dbTypeName)

	// tinyint(1) is the conventional boolean
	if t == "tinyint(1)" {
		return "bool"
	}

	if idx := strings.Index(t, "("); idx >= 0 {
		t = t[:idx]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), " unsigned")

	switch t {
	case "tinyint", "smallint", "mediumint", "int", "integer", "bigint", "year":
		return "int"
	case "float", "double", "decimal", "numeric", "real":
		return "float64"
	case "varchar", "char", "text", "tinytext", "mediumtext", "longtext", "enum", "set", "json":
		return "string"
	case "blob", "tinyblob", "mediumblob", "longblob", "binary", "varbinary":
		return "string"
	case "date":
		return "date"
	case "time":
		return "time"
	case "datetime", "timestamp":
		return "datetime"
	case "bit", "bool", "boolean":
		return "bool"
	default:
		return "string"
	}
}

func (d *Driver) BindParams(params []interface{}) []interface{} {
	return sqlcommon.IdentityParams(params)
}
