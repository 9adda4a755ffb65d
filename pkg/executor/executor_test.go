package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/audit"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/pkg/pool"
	"github.com/kasuganosora/sqlbridge/pkg/sqlbuilder"
)

type scriptedAdapter struct {
	results map[string]*domain.QueryResult
	queries []string
}

func (s *scriptedAdapter) Connect(ctx context.Context) error    { return nil }
func (s *scriptedAdapter) Disconnect(ctx context.Context) error { return nil }
func (s *scriptedAdapter) TestConnection(ctx context.Context) (bool, error) {
	return true, nil
}
func (s *scriptedAdapter) HealthCheck(ctx context.Context) (*domain.HealthStatus, error) {
	return &domain.HealthStatus{Healthy: true}, nil
}
func (s *scriptedAdapter) Execute(ctx context.Context, query string, params []interface{}, opts *domain.ExecuteOptions) (*domain.QueryResult, error) {
	s.queries = append(s.queries, query)
	if r, ok := s.results[query]; ok {
		return r, nil
	}
	return &domain.QueryResult{}, nil
}
func (s *scriptedAdapter) GetTables(ctx context.Context) ([]string, error) {
	return []string{"users"}, nil
}
func (s *scriptedAdapter) GetTableSchema(ctx context.Context, tableName string) (*domain.TableSchema, error) {
	return &domain.TableSchema{Name: tableName}, nil
}
func (s *scriptedAdapter) Dialect() domain.Dialect { return domain.DialectSQLite }

func newTestExecutor(t *testing.T, adapter *scriptedAdapter) (*Executor, *audit.Trail) {
	t.Helper()
	manager := pool.NewManagerWithFactory(pool.Options{}, nil,
		func(config *domain.DatabaseConfig) (domain.Adapter, error) { return adapter, nil })
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		manager.Shutdown(ctx)
	})

	trail := audit.NewTrail(16)
	return New(manager, trail, nil), trail
}

func config() *domain.DatabaseConfig {
	return &domain.DatabaseConfig{Dialect: domain.DialectSQLite, Filename: "t.db"}
}

func TestQueryRejectsWrites(t *testing.T) {
	exec, _ := newTestExecutor(t, &scriptedAdapter{})

	_, err := exec.Query(context.Background(), config(), "UPDATE users SET name = ?", nil, nil)
	var qbErr *domain.QueryBuildError
	if !errors.As(err, &qbErr) || qbErr.Code != domain.CodeStatementRejected {
		t.Fatalf("error = %v, want STATEMENT_REJECTED", err)
	}
}

func TestWriteRejectsReads(t *testing.T) {
	exec, _ := newTestExecutor(t, &scriptedAdapter{})

	_, err := exec.Write(context.Background(), config(), "SELECT * FROM users", nil, nil)
	var qbErr *domain.QueryBuildError
	if !errors.As(err, &qbErr) || qbErr.Code != domain.CodeStatementRejected {
		t.Fatalf("error = %v, want STATEMENT_REJECTED", err)
	}
}

func TestQueryRecordsAudit(t *testing.T) {
	adapter := &scriptedAdapter{results: map[string]*domain.QueryResult{
		"SELECT * FROM users": {RowCount: 3},
	}}
	exec, trail := newTestExecutor(t, adapter)

	result, err := exec.Query(context.Background(), config(), "SELECT * FROM users", nil, nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if result.RowCount != 3 {
		t.Errorf("RowCount = %d, want 3", result.RowCount)
	}

	entries := trail.Entries()
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	if entries[0].Query != "SELECT * FROM users" || entries[0].RowCount != 3 {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestTablesAndSchema(t *testing.T) {
	exec, _ := newTestExecutor(t, &scriptedAdapter{})

	tables, err := exec.Tables(context.Background(), config())
	if err != nil || len(tables) != 1 {
		t.Fatalf("Tables() = %v, %v", tables, err)
	}
	schema, err := exec.Schema(context.Background(), config(), "users")
	if err != nil || schema.Name != "users" {
		t.Fatalf("Schema() = %v, %v", schema, err)
	}
}

func TestPaginate(t *testing.T) {
	countQuery := "SELECT COUNT(*) FROM `events`"
	dataQuery := "SELECT * FROM `events` LIMIT 10 OFFSET 10"
	adapter := &scriptedAdapter{results: map[string]*domain.QueryResult{
		countQuery: {Rows: []domain.Row{{"COUNT(*)": int64(25)}}, RowCount: 1},
		dataQuery:  {Rows: []domain.Row{{"id": int64(11)}}, RowCount: 1},
	}}
	exec, _ := newTestExecutor(t, adapter)

	b, _ := sqlbuilder.New("sqlite")
	b.From("events")
	page, err := exec.Paginate(context.Background(), config(), b, 2, 10)
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	if page.TotalRows != 25 || page.TotalPages != 3 || page.Page != 2 {
		t.Errorf("page = %+v", page)
	}
	if len(page.Rows) != 1 {
		t.Errorf("rows = %v", page.Rows)
	}
}

func TestPaginateLeavesBuilderUnbounded(t *testing.T) {
	countQuery := "SELECT COUNT(*) FROM `events`"
	adapter := &scriptedAdapter{results: map[string]*domain.QueryResult{
		countQuery: {Rows: []domain.Row{{"COUNT(*)": int64(25)}}, RowCount: 1},
		"SELECT * FROM `events` LIMIT 10 OFFSET 0":  {RowCount: 0},
		"SELECT * FROM `events` LIMIT 10 OFFSET 10": {RowCount: 0},
	}}
	exec, _ := newTestExecutor(t, adapter)

	b, _ := sqlbuilder.New("sqlite")
	b.From("events")
	if _, err := exec.Paginate(context.Background(), config(), b, 1, 10); err != nil {
		t.Fatalf("Paginate(page 1) error = %v", err)
	}

	built, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if built.Query != "SELECT * FROM `events`" {
		t.Errorf("builder query after Paginate = %q, want no page bounds", built.Query)
	}

	// A later page must render its own bounds, not inherit page 1's.
	if _, err := exec.Paginate(context.Background(), config(), b, 2, 10); err != nil {
		t.Fatalf("Paginate(page 2) error = %v", err)
	}
	last := adapter.queries[len(adapter.queries)-1]
	if last != "SELECT * FROM `events` LIMIT 10 OFFSET 10" {
		t.Errorf("page 2 data query = %q", last)
	}
}

func TestIsReadStatement(t *testing.T) {
	reads := []string{"SELECT 1", "  with x as (select 1) select * from x", "EXPLAIN SELECT 1", "PRAGMA table_info(t)"}
	writes := []string{"INSERT INTO t VALUES (1)", "update t set a = 1", "DROP TABLE t"}
	for _, q := range reads {
		if !IsReadStatement(q) {
			t.Errorf("IsReadStatement(%q) = false", q)
		}
	}
	for _, q := range writes {
		if IsReadStatement(q) {
			t.Errorf("IsReadStatement(%q) = true", q)
		}
	}
}
