// Package postgresql provides the PostgreSQL adapter, backed by lib/pq.
package postgresql

import (
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/server/adapter/sqlcommon"
)

// Driver implements sqlcommon.Driver for PostgreSQL.
type Driver struct{}

func (d *Driver) Dialect() domain.Dialect { return domain.DialectPostgreSQL }

func (d *Driver) DriverName() string { return "postgres" }

func (d *Driver) BuildDSN(config *domain.DatabaseConfig, opts *sqlcommon.Options) (string, error) {
	port := config.Port
	if port <= 0 {
		port = 5432
	}

	parts := []string{
		fmt.Sprintf("host=%s", config.Host),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("user=%s", config.Username),
		fmt.Sprintf("password=%s", config.Password),
		fmt.Sprintf("dbname=%s", config.Database),
		fmt.Sprintf("sslmode=%s", opts.SSLMode),
	}

	if opts.Schema != "" {
		parts = append(parts, fmt.Sprintf("search_path=%s", opts.Schema))
	}
	if opts.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", opts.ConnectTimeout))
	}
	if opts.SSLCert != "" {
		parts = append(parts, fmt.Sprintf("sslcert=%s", opts.SSLCert))
	}
	if opts.SSLKey != "" {
		parts = append(parts, fmt.Sprintf("sslkey=%s", opts.SSLKey))
	}
	if opts.SSLRootCert != "" {
		parts = append(parts, fmt.Sprintf("sslrootcert=%s", opts.SSLRootCert))
	}

	return strings.Join(parts, " "), nil
}

func (d *Driver) TablesQuery() (string, []interface{}) {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'", nil
}

func (d *Driver) ColumnsQuery(table string) (string, []interface{}) {
	return `SELECT c.column_name, c.data_type, c.is_nullable, c.column_default,
       CASE WHEN kcu.column_name IS NOT NULL THEN 'PRI' ELSE '' END AS column_key
FROM information_schema.columns c
LEFT JOIN information_schema.table_constraints tc
  ON tc.table_schema = c.table_schema AND tc.table_name = c.table_name AND tc.constraint_type = 'PRIMARY KEY'
LEFT JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema AND kcu.column_name = c.column_name
WHERE c.table_schema = current_schema() AND c.table_name = $1
ORDER BY c.ordinal_position`, []interface{}{table}
}

func (d *Driver) ParseColumn(row domain.Row) domain.ColumnInfo {
	col := sqlcommon.ParseInformationSchemaColumn(row, d.MapColumnType)
	// Sequence-backed defaults are how serial columns surface here.
	if strings.HasPrefix(col.Default, "nextval(") {
		col.AutoIncrement = true
	}
	return col
}

func (d *Driver) MapColumnType(dbTypeName string) string {
	t := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(dbTypeName)), "[]")

	switch t {
	case "smallint", "integer", "bigint", "serial", "bigserial", "smallserial", "int2", "int4", "int8":
		return "int"
	case "real", "float4", "double precision", "float8", "numeric", "decimal", "money":
		return "float64"
	case "boolean", "bool":
		return "bool"
	case "date":
		return "date"
	case "time", "time without time zone", "time with time zone", "timetz":
		return "time"
	case "timestamp", "timestamp without time zone", "timestamp with time zone", "timestamptz":
		return "datetime"
	default:
		return "string"
	}
}

func (d *Driver) BindParams(params []interface{}) []interface{} {
	return sqlcommon.IdentityParams(params)
}
