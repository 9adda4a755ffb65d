// Package sqlite provides the SQLite adapter, backed by the CGo-free
// modernc.org driver.
package sqlite

import (
	"strings"

	_ "modernc.org/sqlite"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/server/adapter/sqlcommon"
)

// Driver implements sqlcommon.Driver for SQLite.
type Driver struct{}

func (d *Driver) Dialect() domain.Dialect { return domain.DialectSQLite }

func (d *Driver) DriverName() string { return "sqlite" }

func (d *Driver) BuildDSN(config *domain.DatabaseConfig, opts *sqlcommon.Options) (string, error) {
	if config.Filename == "" {
		return "file::memory:?mode=memory&cache=shared", nil
	}
	return config.Filename, nil
}

func (d *Driver) TablesQuery() (string, []interface{}) {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name", nil
}

func (d *Driver) ColumnsQuery(table string) (string, []interface{}) {
	// PRAGMA arguments cannot be bound, so the table name is quoted inline.
	quoted := "`" + strings.ReplaceAll(table, "`", "``") + "`"
	return "PRAGMA table_info(" + quoted + ")", nil
}

func (d *Driver) ParseColumn(row domain.Row) domain.ColumnInfo {
	name, _ := row["name"].(string)
	colType, _ := row["type"].(string)

	notNull := toBool(row["notnull"])
	primary := toBool(row["pk"])

	def := ""
	if v, ok := row["dflt_value"].(string); ok {
		def = v
	}

	return domain.ColumnInfo{
		Name:     name,
		Type:     d.MapColumnType(colType),
		Nullable: !notNull,
		Primary:  primary,
		Default:  def,
		// INTEGER PRIMARY KEY aliases the rowid and auto-assigns.
		AutoIncrement: primary && strings.EqualFold(strings.TrimSpace(colType), "integer"),
	}
}

func (d *Driver) MapColumnType(dbTypeName string) string {
	t := strings.ToLower(strings.TrimSpace(dbTypeName))
	if idx := strings.Index(t, "("); idx >= 0 {
		t = t[:idx]
	}

	// SQLite type affinity rules, loosely.
	switch {
	case t == "":
		return "string"
	case strings.Contains(t, "int"):
		return "int"
	case strings.Contains(t, "bool"):
		return "bool"
	case strings.Contains(t, "real"), strings.Contains(t, "floa"), strings.Contains(t, "doub"),
		strings.Contains(t, "dec"), strings.Contains(t, "num"):
		return "float64"
	case strings.Contains(t, "date"), strings.Contains(t, "time"):
		return "datetime"
	default:
		return "string"
	}
}

func (d *Driver) BindParams(params []interface{}) []interface{} {
	return sqlcommon.IdentityParams(params)
}

func toBool(v interface{}) bool {
	switch val := v.(type) {
	case int64:
		return val != 0
	case bool:
		return val
	case string:
		return val != "0" && val != ""
	default:
		return false
	}
}
