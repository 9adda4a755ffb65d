// Package sqlserver provides the Microsoft SQL Server adapter, backed by
// go-mssqldb.
package sqlserver

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/denisenkom/go-mssqldb"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/server/adapter/sqlcommon"
)

// Driver implements sqlcommon.Driver for SQL Server.
type Driver struct{}

func (d *Driver) Dialect() domain.Dialect { return domain.DialectMSSQL }

func (d *Driver) DriverName() string { return "sqlserver" }

func (d *Driver) BuildDSN(config *domain.DatabaseConfig, opts *sqlcommon.Options) (string, error) {
	port := config.Port
	if port <= 0 {
		port = 1433
	}

	query := url.Values{}
	query.Set("database", config.Database)
	if opts.ConnectTimeout > 0 {
		query.Set("dial timeout", strconv.Itoa(opts.ConnectTimeout))
	}
	switch strings.ToLower(opts.SSLMode) {
	case "require", "required", "true":
		query.Set("encrypt", "true")
	case "skip-verify", "preferred":
		query.Set("encrypt", "true")
		query.Set("trustservercertificate", "true")
	default:
		query.Set("encrypt", "disable")
	}

	host := config.Host
	if opts.Instance != "" {
		host = host + "/" + opts.Instance
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(config.Username, config.Password),
		Host:     fmt.Sprintf("%s:%d", host, port),
		RawQuery: query.Encode(),
	}
	return u.String(), nil
}

func (d *Driver) TablesQuery() (string, []interface{}) {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE'", nil
}

func (d *Driver) ColumnsQuery(table string) (string, []interface{}) {
	return `SELECT c.COLUMN_NAME, c.DATA_TYPE, c.IS_NULLABLE, c.COLUMN_DEFAULT,
       CASE WHEN kcu.COLUMN_NAME IS NOT NULL THEN 'PRI' ELSE '' END AS COLUMN_KEY,
       CASE WHEN COLUMNPROPERTY(OBJECT_ID(c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity') = 1 THEN 'identity' ELSE '' END AS EXTRA
FROM INFORMATION_SCHEMA.COLUMNS c
LEFT JOIN INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
  ON tc.TABLE_NAME = c.TABLE_NAME AND tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
LEFT JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
  ON kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME AND kcu.COLUMN_NAME = c.COLUMN_NAME
WHERE c.TABLE_NAME = @p1
ORDER BY c.ORDINAL_POSITION`, []interface{}{table}
}

func (d *Driver) ParseColumn(row domain.Row) domain.ColumnInfo {
	return sqlcommon.ParseInformationSchemaColumn(row, d.MapColumnType)
}

func (d *Driver) MapColumnType(dbTypeName string) string {
	t := strings.ToLower(strings.TrimSpace(dbTypeName))
	if idx := strings.Index(t, "("); idx >= 0 {
		t = t[:idx]
	}

	switch t {
	case "tinyint", "smallint", "int", "bigint":
		return "int"
	case "decimal", "numeric", "float", "real", "money", "smallmoney":
		return "float64"
	case "bit":
		return "bool"
	case "date":
		return "date"
	case "time":
		return "time"
	case "datetime", "datetime2", "smalldatetime", "datetimeoffset":
		return "datetime"
	default:
		return "string"
	}
}

// BindParams turns positional values into the named arguments the query
// builder's @paramN placeholders refer to.
func (d *Driver) BindParams(params []interface{}) []interface{} {
	named := make([]interface{}, len(params))
	for i, p := range params {
		named[i] = sql.Named("param"+strconv.Itoa(i+1), p)
	}
	return named
}
