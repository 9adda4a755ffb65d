package oracle

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/server/adapter/sqlcommon"
)

func TestBuildDSNUsesServiceName(t *testing.T) {
	d := &Driver{}
	config := &domain.DatabaseConfig{
		Dialect:  domain.DialectOracle,
		Host:     "ora.example.com",
		Port:     1522,
		Database: "ORCL",
		Username: "svc",
		Password: "secret",
	}
	opts, _ := sqlcommon.ParseOptions(config)

	dsn, err := d.BuildDSN(config, opts)
	if err != nil {
		t.Fatalf("BuildDSN() error = %v", err)
	}
	for _, want := range []string{"oracle://", "ora.example.com:1522", "ORCL"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn = %q, missing %q", dsn, want)
		}
	}
}

func TestColumnsQueryUppercasesTable(t *testing.T) {
	d := &Driver{}
	_, args := d.ColumnsQuery("employees")
	if len(args) != 2 || args[0] != "EMPLOYEES" || args[1] != "EMPLOYEES" {
		t.Errorf("args = %v", args)
	}
}

func TestBindParamsUsesBuilderNames(t *testing.T) {
	d := &Driver{}
	bound := d.BindParams([]interface{}{"x"})
	named, ok := bound[0].(sql.NamedArg)
	if !ok || named.Name != "param1" || named.Value != "x" {
		t.Errorf("bound = %#v, want named param1", bound[0])
	}
}

func TestParseColumn(t *testing.T) {
	d := &Driver{}
	col := d.ParseColumn(domain.Row{
		"COLUMN_NAME":     "ID",
		"DATA_TYPE":       "NUMBER",
		"NULLABLE":        "N",
		"DATA_DEFAULT":    nil,
		"IDENTITY_COLUMN": "YES",
		"COLUMN_KEY":      "PRI",
	})
	if col.Name != "ID" || col.Type != "float64" || col.Nullable || !col.Primary || !col.AutoIncrement {
		t.Errorf("column = %+v", col)
	}
}

func TestMapColumnType(t *testing.T) {
	d := &Driver{}
	tests := []struct {
		dbType string
		want   string
	}{
		{"NUMBER", "float64"},
		{"VARCHAR2", "string"},
		{"DATE", "datetime"},
		{"TIMESTAMP(6)", "datetime"},
		{"TIMESTAMP WITH TIME ZONE", "datetime"},
		{"CLOB", "string"},
	}
	for _, tt := range tests {
		if got := d.MapColumnType(tt.dbType); got != tt.want {
			t.Errorf("MapColumnType(%q) = %q, want %q", tt.dbType, got, tt.want)
		}
	}
}
