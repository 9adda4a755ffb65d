package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/audit"
	"github.com/kasuganosora/sqlbridge/pkg/config"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/pkg/executor"
	"github.com/kasuganosora/sqlbridge/pkg/insights"
	"github.com/kasuganosora/sqlbridge/pkg/logging"
	"github.com/kasuganosora/sqlbridge/pkg/pool"
	mcpserver "github.com/kasuganosora/sqlbridge/server/mcp"

	// Register the dialect adapters.
	_ "github.com/kasuganosora/sqlbridge/server/adapter/mysql"
	_ "github.com/kasuganosora/sqlbridge/server/adapter/oracle"
	_ "github.com/kasuganosora/sqlbridge/server/adapter/postgresql"
	_ "github.com/kasuganosora/sqlbridge/server/adapter/sqlite"
	_ "github.com/kasuganosora/sqlbridge/server/adapter/sqlserver"
)

func main() {
	cfg := config.LoadConfigOrDefault()
	logger := logging.NewDefaultLogger(logging.ParseLevel(cfg.Log.Level))
	logger.Info("starting sqlbridge: transport=%s", cfg.Server.Transport)

	manager := pool.NewManager(cfg.PoolOptions(), logger)
	trail := audit.NewTrail(cfg.Audit.Capacity)
	exec := executor.New(manager, trail, logger)

	deps := &mcpserver.ToolDeps{
		Exec:     exec,
		Pool:     manager,
		Insights: insights.NewStore(),
		Trail:    trail,
		Logger:   logger,
		ExecOpts: domain.ExecuteOptions{
			Timeout: time.Duration(cfg.Execute.Timeout) * time.Second,
			MaxRows: cfg.Execute.MaxRows,
		},
	}
	srv := mcpserver.NewServer(cfg, deps, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			logger.Error("mcp server shutdown: %v", err)
		}
		if err := manager.Shutdown(ctx); err != nil {
			logger.Error("pool shutdown: %v", err)
		}
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		logger.Error("server exited: %v", err)
		os.Exit(1)
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := manager.Shutdown(shutCtx); err != nil {
		logger.Error("pool shutdown: %v", err)
	}
	logger.Info("server stopped")
}
