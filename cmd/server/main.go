package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/nflookup/internal/config"
	"github.com/JonMunkholm/nflookup/internal/core"
	_ "github.com/JonMunkholm/nflookup/internal/core/layouts" // Register all layouts
	"github.com/JonMunkholm/nflookup/internal/logging"
	"github.com/JonMunkholm/nflookup/internal/source"
	"github.com/JonMunkholm/nflookup/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source_kind", cfg.Source.Kind,
		"layout", cfg.Source.LayoutKey(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	// Open the backend; sheets credentials are resolved here
	ctx := context.Background()
	src, layout, err := source.Open(ctx, &cfg.Source)
	if err != nil {
		slog.Error("failed to open source", "error", err, "kind", core.ErrorKind(err))
		os.Exit(1)
	}

	links, err := core.NewTrackingLinks(cfg.Search.DefaultTrackingURL, cfg.Search.TrackingURLs)
	if err != nil {
		slog.Error("invalid tracking configuration", "error", err)
		os.Exit(1)
	}

	service := core.NewService(src, layout, links)

	slog.Info("layouts registered", "count", core.LayoutCount(), "keys", core.Keys())
	slog.Info("source ready",
		"source", service.Source(),
		"layout", layout.Key,
		"search_columns", layout.SearchColumns(),
		"carriers", len(links.All()),
	)

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		defer close(idle)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-idle
	slog.Info("server stopped")
}
