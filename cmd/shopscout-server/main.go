package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/shopscout/browser"
	"github.com/use-agent/shopscout/cart"
	"github.com/use-agent/shopscout/config"
	"github.com/use-agent/shopscout/fetch"
	"github.com/use-agent/shopscout/orchestrator"
	"github.com/use-agent/shopscout/search"
	"github.com/use-agent/shopscout/tools"
	"github.com/use-agent/shopscout/transport"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("shopscout starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
	)

	// ── 3. Initialise domain components ─────────────────────────────
	searchEngine := search.NewEngine(cfg.Search.ProviderTimeout, slog.Default())
	fetcher := fetch.New(cfg.Fetch.Timeout, cfg.Fetch.MaxBodyBytes)
	browserRt := browser.New(cfg.Browser, slog.Default())
	defer browserRt.Close()
	c := cart.New()

	// ── 4. Register tools ────────────────────────────────────────────
	reg := tools.NewRegistry()
	if err := tools.RegisterSearchTools(reg, searchEngine); err != nil {
		slog.Error("failed to register search tools", "error", err)
		os.Exit(1)
	}
	if err := tools.RegisterFetchTools(reg, fetcher); err != nil {
		slog.Error("failed to register fetch tools", "error", err)
		os.Exit(1)
	}
	if err := tools.RegisterProductTools(reg); err != nil {
		slog.Error("failed to register product tools", "error", err)
		os.Exit(1)
	}
	if err := tools.RegisterBrowserTools(reg, browserRt, cfg.Browser.DefaultOpTimeout, cfg.Browser.NavigationTimeout); err != nil {
		slog.Error("failed to register browser tools", "error", err)
		os.Exit(1)
	}
	if err := tools.RegisterCartTools(reg, c); err != nil {
		slog.Error("failed to register cart tools", "error", err)
		os.Exit(1)
	}

	// ── 5. Setup transport ───────────────────────────────────────────
	srv := transport.NewServer(reg, cfg.Server.Mode, slog.Default())

	orch := orchestrator.New(searchEngine, fetcher, browserRt, cfg.Browser.NavigationTimeout, cfg.Browser.DefaultOpTimeout, slog.Default())
	srv.RegisterResearch(orch)

	// ── 6. Start HTTP server ─────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ──────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// browserRt.Close() runs via defer — idempotent, tolerates a browser
	// that was never started.
	slog.Info("shopscout stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
