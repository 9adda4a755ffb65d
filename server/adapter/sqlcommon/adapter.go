package sqlcommon

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// Adapter is the shared database/sql implementation of domain.Adapter.
// Every server-backed dialect embeds one, differing only in its Driver.
type Adapter struct {
	mu        sync.RWMutex
	config    *domain.DatabaseConfig
	opts      *Options
	driver    Driver
	db        *sql.DB
	connected bool
}

// New builds an unconnected adapter for the given target.
func New(config *domain.DatabaseConfig, driver Driver) (*Adapter, error) {
	opts, err := ParseOptions(config)
	if err != nil {
		return nil, domain.NewConnectionError(driver.Dialect(), domain.CodeConnectionFailed,
			"invalid connection options", err)
	}
	return &Adapter{config: config, opts: opts, driver: driver}, nil
}

// NewWithDB wraps an already-open handle. Connect is a no-op for adapters
// built this way; the caller keeps ownership of pool sizing.
func NewWithDB(config *domain.DatabaseConfig, driver Driver, db *sql.DB) (*Adapter, error) {
	a, err := New(config, driver)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.connected = true
	return a, nil
}

// Connect opens the database handle and verifies it with a ping.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.connected && a.db != nil {
		return nil
	}

	dsn, err := a.driver.BuildDSN(a.config, a.opts)
	if err != nil {
		return domain.NewConnectionError(a.driver.Dialect(), domain.CodeConnectionFailed,
			"building connection string failed", err)
	}

	db, err := sql.Open(a.driver.DriverName(), dsn)
	if err != nil {
		return domain.NewConnectionError(a.driver.Dialect(), domain.CodeConnectionFailed,
			"opening database handle failed", err)
	}

	db.SetMaxOpenConns(a.opts.MaxOpenConns)
	db.SetMaxIdleConns(a.opts.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(a.opts.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(a.opts.ConnMaxIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(a.opts.ConnectTimeout)*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return domain.NewConnectionError(a.driver.Dialect(), domain.CodeConnectionFailed,
			"ping failed", err)
	}

	a.db = db
	a.connected = true
	return nil
}

// Disconnect closes the handle. Safe to call when not connected.
func (a *Adapter) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.connected = false
	if a.db != nil {
		err := a.db.Close()
		a.db = nil
		return err
	}
	return nil
}

// TestConnection reports whether the target currently answers a ping.
func (a *Adapter) TestConnection(ctx context.Context) (bool, error) {
	db, err := a.handle()
	if err != nil {
		return false, err
	}
	if err := db.PingContext(ctx); err != nil {
		return false, nil
	}
	return true, nil
}

// HealthCheck pings the target and reports driver pool statistics.
func (a *Adapter) HealthCheck(ctx context.Context) (*domain.HealthStatus, error) {
	db, err := a.handle()
	if err != nil {
		return nil, err
	}

	status := &domain.HealthStatus{Details: map[string]interface{}{
		"dialect": string(a.driver.Dialect()),
	}}
	if err := db.PingContext(ctx); err != nil {
		status.Details["error"] = err.Error()
		return status, nil
	}

	stats := db.Stats()
	status.Healthy = true
	status.Details["open_connections"] = stats.OpenConnections
	status.Details["in_use"] = stats.InUse
	status.Details["idle"] = stats.Idle
	return status, nil
}

// Execute runs one parameterized statement. Row-returning statements come
// back with columns and rows; DML reports affected rows and, where the
// driver supports it, the last insert id.
func (a *Adapter) Execute(ctx context.Context, query string, params []interface{}, opts *domain.ExecuteOptions) (*domain.QueryResult, error) {
	db, err := a.handle()
	if err != nil {
		return nil, err
	}

	if opts != nil && opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := a.driver.BindParams(params)

	if isRowReturning(query) {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, domain.NewConnectionError(a.driver.Dialect(), domain.CodeConnectionFailed,
				"query failed", err)
		}
		defer rows.Close()

		maxRows := 0
		if opts != nil {
			maxRows = opts.MaxRows
		}
		data, columns, err := ScanRows(rows, a.driver, maxRows)
		if err != nil {
			return nil, err
		}
		return &domain.QueryResult{
			Columns:  columns,
			Rows:     data,
			RowCount: int64(len(data)),
		}, nil
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewConnectionError(a.driver.Dialect(), domain.CodeConnectionFailed,
			"statement failed", err)
	}

	affected, _ := result.RowsAffected()
	// LastInsertId is unsupported on several drivers; treat failure as absent.
	insertID, _ := result.LastInsertId()
	return &domain.QueryResult{
		AffectedRows: affected,
		InsertID:     insertID,
	}, nil
}

// GetTables lists user tables in the connected database.
func (a *Adapter) GetTables(ctx context.Context) ([]string, error) {
	db, err := a.handle()
	if err != nil {
		return nil, err
	}

	query, args := a.driver.TablesQuery()
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewConnectionError(a.driver.Dialect(), domain.CodeConnectionFailed,
			"listing tables failed", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, domain.NewConnectionError(a.driver.Dialect(), domain.CodeConnectionFailed,
				"scanning table name failed", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// GetTableSchema returns column metadata for one table.
func (a *Adapter) GetTableSchema(ctx context.Context, tableName string) (*domain.TableSchema, error) {
	db, err := a.handle()
	if err != nil {
		return nil, err
	}

	query, args := a.driver.ColumnsQuery(tableName)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewConnectionError(a.driver.Dialect(), domain.CodeConnectionFailed,
			"describing table failed", err)
	}
	defer rows.Close()

	data, _, err := ScanRows(rows, a.driver, 0)
	if err != nil {
		return nil, err
	}

	columns := make([]domain.ColumnInfo, 0, len(data))
	for _, row := range data {
		columns = append(columns, a.driver.ParseColumn(row))
	}
	return &domain.TableSchema{Name: tableName, Columns: columns}, nil
}

// Dialect identifies the adapter's SQL dialect.
func (a *Adapter) Dialect() domain.Dialect {
	return a.driver.Dialect()
}

func (a *Adapter) handle() (*sql.DB, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.connected || a.db == nil {
		return nil, domain.NewConnectionError(a.driver.Dialect(), domain.CodeNotConnected,
			"adapter is not connected", nil)
	}
	return a.db, nil
}

// isRowReturning classifies a statement by its leading keyword.
func isRowReturning(query string) bool {
	trimmed := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "SHOW", "DESCRIBE", "DESC ", "EXPLAIN", "WITH", "PRAGMA"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
