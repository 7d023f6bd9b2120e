package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arxi-lab/salescope/internal/cache"
	"github.com/arxi-lab/salescope/internal/config"
	"github.com/arxi-lab/salescope/internal/load"
	"github.com/arxi-lab/salescope/internal/query"
	"github.com/arxi-lab/salescope/internal/server"
)

func main() {
	configPath := flag.String("config", "salescope.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	// 2. Initialize Loader
	loader := load.New(cfg.Data.Dir)

	// 3. Initialize Query Service
	var responseCache *cache.Cache
	if cfg.Cache.Enabled {
		ttl, err := cfg.Cache.ParseTTL()
		if err != nil {
			slog.Error("Invalid cache configuration", "error", err)
			os.Exit(1)
		}
		responseCache = cache.New(ttl)
	}
	querySvc := query.NewService(loader, responseCache)

	// 4. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), loader, cfg.Server.Mode)
	querySvc.RegisterRoutes(srv.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial load runs in the background; endpoints answer 503 until the
	// store is published. A failed first load is fatal, since there is no
	// "ready with gaps" state to fall back to.
	go func() {
		if err := loader.Initialize(); err != nil {
			slog.Error("Data initialization failed", "error", err)
			cancel()
		}
	}()

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
