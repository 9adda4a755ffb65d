// Package mcp exposes the query tools over the Model Context Protocol,
// either on stdio or as a streamable HTTP endpoint.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kasuganosora/sqlbridge/pkg/config"
	"github.com/kasuganosora/sqlbridge/pkg/logging"
)

const serverVersion = "1.0.0"

// Server wires the tool handlers into an MCP server.
type Server struct {
	cfg     *config.Config
	deps    *ToolDeps
	logger  logging.Logger
	httpSrv *mcpserver.StreamableHTTPServer
}

// NewServer creates an MCP server around the given dependencies.
func NewServer(cfg *config.Config, deps *ToolDeps, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return &Server{cfg: cfg, deps: deps, logger: logger}
}

// connectionArgs are the target parameters shared by every tool that
// touches a database.
func connectionArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("dialect",
			mcp.Description("Target dialect: mysql, postgresql, mssql, oracle or sqlite"),
			mcp.Required()),
		mcp.WithString("host", mcp.Description("Database host")),
		mcp.WithNumber("port", mcp.Description("Database port, dialect default when omitted")),
		mcp.WithString("database", mcp.Description("Database or service name")),
		mcp.WithString("username", mcp.Description("Login user")),
		mcp.WithString("password", mcp.Description("Login password")),
		mcp.WithString("filename", mcp.Description("Database file path, sqlite only")),
	}
}

func withConnection(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts, connectionArgs()...)
}

// Start runs the server on the configured transport. It blocks until the
// transport shuts down.
func (s *Server) Start() error {
	mcpSrv := mcpserver.NewMCPServer(
		"sqlbridge",
		serverVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	readTool := mcp.NewTool("read_query", withConnection(
		mcp.WithDescription("Execute a row-returning SQL statement (SELECT, SHOW, EXPLAIN) with optional positional parameters."),
		mcp.WithString("sql", mcp.Description("The SQL statement to execute"), mcp.Required()),
		mcp.WithArray("params", mcp.Description("Positional parameter values bound to the statement's placeholders")),
	)...)

	writeTool := mcp.NewTool("write_query", withConnection(
		mcp.WithDescription("Execute a data or schema modifying SQL statement (INSERT, UPDATE, DELETE, DDL)."),
		mcp.WithString("sql", mcp.Description("The SQL statement to execute"), mcp.Required()),
		mcp.WithArray("params", mcp.Description("Positional parameter values bound to the statement's placeholders")),
	)...)

	listTablesTool := mcp.NewTool("list_tables", withConnection(
		mcp.WithDescription("List user tables in the target database."),
	)...)

	describeTool := mcp.NewTool("describe_table", withConnection(
		mcp.WithDescription("Return column names, types and constraints for one table."),
		mcp.WithString("table", mcp.Description("The table name"), mcp.Required()),
	)...)

	exportTool := mcp.NewTool("export_query", withConnection(
		mcp.WithDescription("Run a read statement and write the result to a CSV or XLSX file."),
		mcp.WithString("sql", mcp.Description("The SQL statement to execute"), mcp.Required()),
		mcp.WithString("format", mcp.Description("Export format: csv (default) or xlsx")),
		mcp.WithArray("params", mcp.Description("Positional parameter values bound to the statement's placeholders")),
	)...)

	appendInsightTool := mcp.NewTool("append_insight",
		mcp.WithDescription("Record an analyst note about the data."),
		mcp.WithString("insight", mcp.Description("The note to record"), mcp.Required()),
		mcp.WithString("source", mcp.Description("What produced the note")),
	)

	listInsightsTool := mcp.NewTool("list_insights",
		mcp.WithDescription("List all recorded analyst notes."),
	)

	poolStatsTool := mcp.NewTool("pool_stats",
		mcp.WithDescription("Report connection pool statistics per target and recent statement history."),
	)

	mcpSrv.AddTool(readTool, s.deps.HandleReadQuery)
	mcpSrv.AddTool(writeTool, s.deps.HandleWriteQuery)
	mcpSrv.AddTool(listTablesTool, s.deps.HandleListTables)
	mcpSrv.AddTool(describeTool, s.deps.HandleDescribeTable)
	mcpSrv.AddTool(exportTool, s.deps.HandleExportQuery)
	mcpSrv.AddTool(appendInsightTool, s.deps.HandleAppendInsight)
	mcpSrv.AddTool(listInsightsTool, s.deps.HandleListInsights)
	mcpSrv.AddTool(poolStatsTool, s.deps.HandlePoolStats)

	if s.cfg.Server.Transport == "http" {
		s.httpSrv = mcpserver.NewStreamableHTTPServer(
			mcpSrv,
			mcpserver.WithEndpointPath("/mcp"),
		)
		s.logger.Info("mcp: listening on %s", s.cfg.ListenAddress())
		return s.httpSrv.Start(s.cfg.ListenAddress())
	}

	s.logger.Info("mcp: serving on stdio")
	return mcpserver.ServeStdio(mcpSrv)
}

// Stop shuts the HTTP transport down. Stdio stops when its input closes.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv != nil {
		return s.httpSrv.Shutdown(ctx)
	}
	return nil
}
