package sqlite

import (
	"testing"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

func TestColumnsQueryQuotesTableName(t *testing.T) {
	d := &Driver{}
	query, args := d.ColumnsQuery("us`ers")
	if query != "PRAGMA table_info(`us``ers`)" {
		t.Errorf("query = %q", query)
	}
	if args != nil {
		t.Errorf("args = %v, want none", args)
	}
}

func TestParseColumn(t *testing.T) {
	d := &Driver{}
	col := d.ParseColumn(domain.Row{
		"cid":        int64(0),
		"name":       "id",
		"type":       "INTEGER",
		"notnull":    int64(1),
		"dflt_value": nil,
		"pk":         int64(1),
	})
	if col.Name != "id" || col.Type != "int" || col.Nullable || !col.Primary || !col.AutoIncrement {
		t.Errorf("column = %+v", col)
	}

	col = d.ParseColumn(domain.Row{
		"name":    "note",
		"type":    "TEXT",
		"notnull": int64(0),
		"pk":      int64(0),
	})
	if col.Type != "string" || !col.Nullable || col.Primary || col.AutoIncrement {
		t.Errorf("column = %+v", col)
	}
}

func TestMapColumnType(t *testing.T) {
	d := &Driver{}
	tests := []struct {
		dbType string
		want   string
	}{
		{"INTEGER", "int"},
		{"VARCHAR(80)", "string"},
		{"NUMERIC(10,2)", "float64"},
		{"DATETIME", "datetime"},
		{"BOOLEAN", "bool"},
		{"", "string"},
	}
	for _, tt := range tests {
		if got := d.MapColumnType(tt.dbType); got != tt.want {
			t.Errorf("MapColumnType(%q) = %q, want %q", tt.dbType, got, tt.want)
		}
	}
}

func TestBuildDSNInMemoryDefault(t *testing.T) {
	d := &Driver{}
	dsn, err := d.BuildDSN(&domain.DatabaseConfig{Dialect: domain.DialectSQLite}, nil)
	if err != nil {
		t.Fatalf("BuildDSN() error = %v", err)
	}
	if dsn == "" {
		t.Error("empty dsn for in-memory database")
	}
}
