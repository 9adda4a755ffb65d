// Package sqlcommon implements domain.Adapter on top of database/sql. Each
// dialect package contributes a Driver that supplies the connection string,
// the catalog queries and the type mapping; everything else is shared.
package sqlcommon

import (
	"strings"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// Driver encapsulates engine-specific behavior behind the shared adapter.
type Driver interface {
	// Dialect identifies the SQL dialect the driver serves.
	Dialect() domain.Dialect

	// DriverName returns the database/sql driver name to open with.
	DriverName() string

	// BuildDSN constructs the driver-specific connection string.
	BuildDSN(config *domain.DatabaseConfig, opts *Options) (string, error)

	// TablesQuery returns SQL listing user tables in the current database.
	TablesQuery() (string, []interface{})

	// ColumnsQuery returns SQL listing column metadata for one table.
	ColumnsQuery(table string) (string, []interface{})

	// ParseColumn converts one ColumnsQuery result row into ColumnInfo.
	ParseColumn(row domain.Row) domain.ColumnInfo

	// MapColumnType converts an engine column type to a portable type name.
	MapColumnType(dbTypeName string) string

	// BindParams rewrites positional parameters into the form the driver
	// binds with. Most drivers return them unchanged.
	BindParams(params []interface{}) []interface{}
}

// IdentityParams is the BindParams implementation for drivers that bind
// positionally.
func IdentityParams(params []interface{}) []interface{} {
	return params
}

// ParseInformationSchemaColumn interprets a row from an
// information_schema.columns style query. It understands both the MySQL
// (column_type, column_key, extra) and standard (data_type) spellings.
func ParseInformationSchemaColumn(row domain.Row, mapType func(string) string) domain.ColumnInfo {
	m := make(map[string]interface{}, len(row))
	for k, v := range row {
		m[strings.ToLower(k)] = v
	}

	name, _ := m["column_name"].(string)
	colType, _ := m["column_type"].(string)
	if colType == "" {
		colType, _ = m["data_type"].(string)
	}

	nullable := false
	if n, ok := m["is_nullable"].(string); ok {
		nullable = strings.EqualFold(n, "YES")
	}

	primary := false
	if k, ok := m["column_key"].(string); ok {
		primary = strings.EqualFold(k, "PRI")
	}

	autoInc := false
	if extra, ok := m["extra"].(string); ok {
		autoInc = strings.Contains(strings.ToLower(extra), "auto_increment") ||
			strings.Contains(strings.ToLower(extra), "identity")
	}

	def := ""
	if d, ok := m["column_default"].(string); ok {
		def = d
	}

	return domain.ColumnInfo{
		Name:          name,
		Type:          mapType(colType),
		Nullable:      nullable,
		Primary:       primary,
		Default:       def,
		AutoIncrement: autoInc,
	}
}
