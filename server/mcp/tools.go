package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kasuganosora/sqlbridge/pkg/audit"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/pkg/executor"
	"github.com/kasuganosora/sqlbridge/pkg/export"
	"github.com/kasuganosora/sqlbridge/pkg/insights"
	"github.com/kasuganosora/sqlbridge/pkg/logging"
	"github.com/kasuganosora/sqlbridge/pkg/pool"
)

// ToolDeps holds shared dependencies for MCP tool handlers.
type ToolDeps struct {
	Exec     *executor.Executor
	Pool     *pool.Manager
	Insights *insights.Store
	Trail    *audit.Trail
	Logger   logging.Logger
	ExecOpts domain.ExecuteOptions
	// ExportDir receives export_query output files. Empty means the
	// system temp directory.
	ExportDir string
}

// targetConfig assembles the connection target from the request's shared
// connection arguments.
func (d *ToolDeps) targetConfig(request mcp.CallToolRequest) (*domain.DatabaseConfig, error) {
	dialect, err := domain.ParseDialect(request.GetString("dialect", ""))
	if err != nil {
		return nil, err
	}
	return &domain.DatabaseConfig{
		Dialect:  dialect,
		Host:     request.GetString("host", ""),
		Port:     request.GetInt("port", 0),
		Database: request.GetString("database", ""),
		Username: request.GetString("username", ""),
		Password: request.GetString("password", ""),
		Filename: request.GetString("filename", ""),
	}, nil
}

// paramsArg extracts the optional positional parameter array.
func paramsArg(request mcp.CallToolRequest) []interface{} {
	args := request.GetArguments()
	if p, ok := args["params"].([]interface{}); ok {
		return p
	}
	return nil
}

func resultJSON(result *domain.QueryResult) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", result)
	}
	return string(data)
}

// HandleReadQuery runs a row-returning statement.
func (d *ToolDeps) HandleReadQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sql := request.GetString("sql", "")
	if sql == "" {
		return mcp.NewToolResultError("sql parameter is required"), nil
	}
	config, err := d.targetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	opts := d.ExecOpts
	result, err := d.Exec.Query(ctx, config, sql, paramsArg(request), &opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	d.Logger.Debug("mcp: read_query returned %d rows in %s", result.RowCount, time.Since(start))
	return mcp.NewToolResultText(resultJSON(result)), nil
}

// HandleWriteQuery runs a data or schema modifying statement.
func (d *ToolDeps) HandleWriteQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sql := request.GetString("sql", "")
	if sql == "" {
		return mcp.NewToolResultError("sql parameter is required"), nil
	}
	config, err := d.targetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := d.ExecOpts
	result, err := d.Exec.Write(ctx, config, sql, paramsArg(request), &opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("statement failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("affected rows: %d", result.AffectedRows)), nil
}

// HandleListTables lists user tables on the target.
func (d *ToolDeps) HandleListTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	config, err := d.targetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tables, err := d.Exec.Tables(ctx, config)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tables: %v", err)), nil
	}
	data, _ := json.MarshalIndent(tables, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

// HandleDescribeTable returns column metadata for one table.
func (d *ToolDeps) HandleDescribeTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := request.GetString("table", "")
	if table == "" {
		return mcp.NewToolResultError("table parameter is required"), nil
	}
	config, err := d.targetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	schema, err := d.Exec.Schema(ctx, config, table)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to describe table: %v", err)), nil
	}
	data, _ := json.MarshalIndent(schema, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

// HandleExportQuery runs a read statement and writes the result to a CSV
// or XLSX file, returning the file path.
func (d *ToolDeps) HandleExportQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sql := request.GetString("sql", "")
	if sql == "" {
		return mcp.NewToolResultError("sql parameter is required"), nil
	}
	format, err := export.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	config, err := d.targetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := d.ExecOpts
	result, err := d.Exec.Query(ctx, config, sql, paramsArg(request), &opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	dir := d.ExportDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("export-%s.%s", uuid.NewString(), format))
	f, err := os.Create(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("create export file: %v", err)), nil
	}
	defer f.Close()

	if err := export.Write(f, result, format); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("exported %d rows to %s", result.RowCount, path)), nil
}

// HandleAppendInsight records an analyst note.
func (d *ToolDeps) HandleAppendInsight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("insight", "")
	if text == "" {
		return mcp.NewToolResultError("insight parameter is required"), nil
	}
	insight := d.Insights.Append(text, request.GetString("source", ""))
	return mcp.NewToolResultText(fmt.Sprintf("recorded insight %s", insight.ID)), nil
}

// HandleListInsights returns all recorded notes.
func (d *ToolDeps) HandleListInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, _ := json.MarshalIndent(d.Insights.List(), "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

// HandlePoolStats reports per-target pool statistics and recent audit
// entries.
func (d *ToolDeps) HandlePoolStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := struct {
		Pools map[string]pool.TargetStats `json:"pools"`
		Audit []audit.Entry               `json:"recent_statements,omitempty"`
	}{
		Pools: d.Pool.Stats(),
	}
	if d.Trail != nil {
		entries := d.Trail.Entries()
		if len(entries) > 20 {
			entries = entries[len(entries)-20:]
		}
		payload.Audit = entries
	}
	data, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}
