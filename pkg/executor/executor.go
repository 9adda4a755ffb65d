// Package executor runs statements against pooled connections. It is the
// layer the tool front end talks to: it leases a connection per call,
// enforces the read/write split, and records every execution in the audit
// trail.
package executor

import (
	"context"
	"strings"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/audit"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/pkg/logging"
	"github.com/kasuganosora/sqlbridge/pkg/pool"
)

// Executor coordinates statement execution over the pool manager.
type Executor struct {
	pool   *pool.Manager
	trail  *audit.Trail
	logger logging.Logger
}

// New builds an executor. trail may be nil to disable auditing.
func New(manager *pool.Manager, trail *audit.Trail, logger logging.Logger) *Executor {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Executor{pool: manager, trail: trail, logger: logger}
}

// Query runs a row-returning statement. Anything that would modify data is
// rejected before a connection is leased.
func (e *Executor) Query(ctx context.Context, config *domain.DatabaseConfig, query string, params []interface{}, opts *domain.ExecuteOptions) (*domain.QueryResult, error) {
	if !IsReadStatement(query) {
		return nil, domain.NewQueryBuildError(domain.CodeStatementRejected,
			"only read statements are allowed here")
	}
	return e.run(ctx, config, query, params, opts)
}

// Write runs a data or schema modifying statement. Read statements are
// rejected so the two tool surfaces stay distinct.
func (e *Executor) Write(ctx context.Context, config *domain.DatabaseConfig, query string, params []interface{}, opts *domain.ExecuteOptions) (*domain.QueryResult, error) {
	if IsReadStatement(query) {
		return nil, domain.NewQueryBuildError(domain.CodeStatementRejected,
			"use the read surface for row-returning statements")
	}
	return e.run(ctx, config, query, params, opts)
}

func (e *Executor) run(ctx context.Context, config *domain.DatabaseConfig, query string, params []interface{}, opts *domain.ExecuteOptions) (*domain.QueryResult, error) {
	lease, err := e.pool.Acquire(ctx, config)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	start := time.Now()
	result, err := lease.Adapter().Execute(ctx, query, params, opts)
	e.record(lease.Fingerprint(), query, start, result, err)
	if err != nil {
		e.logger.Warn("executor: statement failed on %s: %v", lease.Fingerprint(), err)
		return nil, err
	}
	return result, nil
}

// Tables lists user tables on the target.
func (e *Executor) Tables(ctx context.Context, config *domain.DatabaseConfig) ([]string, error) {
	lease, err := e.pool.Acquire(ctx, config)
	if err != nil {
		return nil, err
	}
	defer lease.Release()
	return lease.Adapter().GetTables(ctx)
}

// Schema returns column metadata for one table on the target.
func (e *Executor) Schema(ctx context.Context, config *domain.DatabaseConfig, table string) (*domain.TableSchema, error) {
	lease, err := e.pool.Acquire(ctx, config)
	if err != nil {
		return nil, err
	}
	defer lease.Release()
	return lease.Adapter().GetTableSchema(ctx, table)
}

func (e *Executor) record(fingerprint, query string, start time.Time, result *domain.QueryResult, err error) {
	if e.trail == nil {
		return
	}
	entry := audit.Entry{
		Fingerprint: fingerprint,
		Query:       query,
		Duration:    time.Since(start),
	}
	if result != nil {
		entry.RowCount = result.RowCount
		if entry.RowCount == 0 {
			entry.RowCount = result.AffectedRows
		}
	}
	if err != nil {
		entry.Error = err.Error()
	}
	e.trail.Record(entry)
}

// IsReadStatement classifies a statement by its leading keyword.
func IsReadStatement(query string) bool {
	trimmed := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "SHOW", "DESCRIBE", "DESC ", "EXPLAIN", "WITH", "PRAGMA"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
