package mysql

import (
	"strings"
	"testing"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/server/adapter/sqlcommon"
)

func TestBuildDSN(t *testing.T) {
	d := &Driver{}
	config := &domain.DatabaseConfig{
		Dialect:  domain.DialectMySQL,
		Host:     "db.example.com",
		Port:     3307,
		Database: "app",
		Username: "svc",
		Password: "secret",
	}
	opts, err := sqlcommon.ParseOptions(config)
	if err != nil {
		t.Fatalf("ParseOptions() error = %v", err)
	}

	dsn, err := d.BuildDSN(config, opts)
	if err != nil {
		t.Fatalf("BuildDSN() error = %v", err)
	}
	for _, want := range []string{"svc:secret@tcp(db.example.com:3307)/app", "charset=utf8mb4", "parseTime=true"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn = %q, missing %q", dsn, want)
		}
	}
}

func TestBuildDSNDefaultPort(t *testing.T) {
	d := &Driver{}
	config := &domain.DatabaseConfig{Dialect: domain.DialectMySQL, Host: "localhost"}
	opts, _ := sqlcommon.ParseOptions(config)

	dsn, err := d.BuildDSN(config, opts)
	if err != nil {
		t.Fatalf("BuildDSN() error = %v", err)
	}
	if !strings.Contains(dsn, "localhost:3306") {
		t.Errorf("dsn = %q, want default port 3306", dsn)
	}
}

func TestMapColumnType(t *testing.T) {
	d := &Driver{}
	tests := []struct {
		dbType string
		want   string
	}{
		{"tinyint(1)", "bool"},
		{"tinyint(4)", "int"},
		{"int(11)", "int"},
		{"bigint unsigned", "int"},
		{"varchar(255)", "string"},
		{"decimal(10,2)", "float64"},
		{"datetime", "datetime"},
		{"timestamp", "datetime"},
		{"date", "date"},
		{"json", "string"},
		{"geometry", "string"},
	}
	for _, tt := range tests {
		if got := d.MapColumnType(tt.dbType); got != tt.want {
			t.Errorf("MapColumnType(%q) = %q, want %q", tt.dbType, got, tt.want)
		}
	}
}

func TestParseColumn(t *testing.T) {
	d := &Driver{}
	col := d.ParseColumn(domain.Row{
		"COLUMN_NAME":    "id",
		"COLUMN_TYPE":    "bigint unsigned",
		"IS_NULLABLE":    "NO",
		"COLUMN_KEY":     "PRI",
		"COLUMN_DEFAULT": nil,
		"EXTRA":          "auto_increment",
	})
	if col.Name != "id" || col.Type != "int" || col.Nullable || !col.Primary || !col.AutoIncrement {
		t.Errorf("column = %+v", col)
	}
}
