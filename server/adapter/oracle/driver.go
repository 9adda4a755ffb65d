// Package oracle provides the Oracle Database adapter, backed by go-ora.
package oracle

import (
	"database/sql"
	"strconv"
	"strings"

	go_ora "github.com/sijms/go-ora/v2"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/server/adapter/sqlcommon"
)

// Driver implements sqlcommon.Driver for Oracle.
type Driver struct{}

func (d *Driver) Dialect() domain.Dialect { return domain.DialectOracle }

func (d *Driver) DriverName() string { return "oracle" }

func (d *Driver) BuildDSN(config *domain.DatabaseConfig, opts *sqlcommon.Options) (string, error) {
	port := config.Port
	if port <= 0 {
		port = 1521
	}

	service := opts.ServiceName
	if service == "" {
		service = config.Database
	}

	urlOpts := map[string]string{}
	if opts.ConnectTimeout > 0 {
		urlOpts["TIMEOUT"] = strconv.Itoa(opts.ConnectTimeout)
	}

	return go_ora.BuildUrl(config.Host, port, service, config.Username, config.Password, urlOpts), nil
}

func (d *Driver) TablesQuery() (string, []interface{}) {
	return "SELECT TABLE_NAME FROM USER_TABLES ORDER BY TABLE_NAME", nil
}

func (d *Driver) ColumnsQuery(table string) (string, []interface{}) {
	// Unquoted identifiers live uppercase in the Oracle catalog.
	return `SELECT c.COLUMN_NAME, c.DATA_TYPE, c.NULLABLE, c.DATA_DEFAULT, c.IDENTITY_COLUMN,
       CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 'PRI' ELSE '' END AS COLUMN_KEY
FROM USER_TAB_COLUMNS c
LEFT JOIN (
  SELECT cc.COLUMN_NAME
  FROM USER_CONSTRAINTS uc
  JOIN USER_CONS_COLUMNS cc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
  WHERE uc.CONSTRAINT_TYPE = 'P' AND uc.TABLE_NAME = :1
) pk ON pk.COLUMN_NAME = c.COLUMN_NAME
WHERE c.TABLE_NAME = :2
ORDER BY c.COLUMN_ID`, []interface{}{strings.ToUpper(table), strings.ToUpper(table)}
}

func (d *Driver) ParseColumn(row domain.Row) domain.ColumnInfo {
	m := make(map[string]interface{}, len(row))
	for k, v := range row {
		m[strings.ToLower(k)] = v
	}

	name, _ := m["column_name"].(string)
	colType, _ := m["data_type"].(string)

	nullable := false
	if n, ok := m["nullable"].(string); ok {
		nullable = strings.EqualFold(n, "Y")
	}
	primary := false
	if k, ok := m["column_key"].(string); ok {
		primary = strings.EqualFold(k, "PRI")
	}
	autoInc := false
	if id, ok := m["identity_column"].(string); ok {
		autoInc = strings.EqualFold(id, "YES")
	}
	def := ""
	if v, ok := m["data_default"].(string); ok {
		def = strings.TrimSpace(v)
	}

	return domain.ColumnInfo{
		Name:          name,
		Type:          d.MapColumnType(colType),
		Nullable:      nullable,
		Primary:       primary,
		Default:       def,
		AutoIncrement: autoInc,
	}
}

func (d *Driver) MapColumnType(dbTypeName string) string {
	t := strings.ToUpper(strings.TrimSpace(dbTypeName))
	if idx := strings.Index(t, "("); idx >= 0 {
		t = t[:idx]
	}

	switch t {
	case "NUMBER", "FLOAT", "BINARY_FLOAT", "BINARY_DOUBLE":
		return "float64"
	case "INTEGER", "INT", "SMALLINT":
		return "int"
	case "DATE":
		return "datetime"
	case "VARCHAR2", "NVARCHAR2", "CHAR", "NCHAR", "CLOB", "NCLOB", "LONG", "RAW", "ROWID":
		return "string"
	default:
		if strings.HasPrefix(t, "TIMESTAMP") {
			return "datetime"
		}
		return "string"
	}
}

// BindParams turns positional values into the named arguments the query
// builder's :paramN placeholders refer to.
func (d *Driver) BindParams(params []interface{}) []interface{} {
	named := make([]interface{}, len(params))
	for i, p := range params {
		named[i] = sql.Named("param"+strconv.Itoa(i+1), p)
	}
	return named
}
