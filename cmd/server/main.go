package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/buildprops/internal/config"
	"github.com/JonMunkholm/buildprops/internal/core"
	"github.com/JonMunkholm/buildprops/internal/logging"
	"github.com/JonMunkholm/buildprops/internal/sanitize"
	"github.com/JonMunkholm/buildprops/internal/store"
	"github.com/JonMunkholm/buildprops/internal/table"
	"github.com/JonMunkholm/buildprops/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Overload lets .env win over the inherited environment.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	if err := core.RegisterViews(cfg.Table.Views); err != nil {
		slog.Error("failed to register views", "error", err)
		os.Exit(1)
	}
	slog.Info("views registered", "count", core.ViewCount())

	opts, err := tableOptions(cfg)
	if err != nil {
		slog.Error("invalid table settings", "error", err)
		os.Exit(1)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	props := store.New(pool)
	if err := props.EnsureSchema(ctx); err != nil {
		slog.Error("failed to create schema", "error", err)
		os.Exit(1)
	}

	service := core.NewService(props, opts).
		WithBuildLimiter(core.NewBuildLimiter(cfg.Table.MaxConcurrentBuilds, cfg.Table.BuildWait))
	server := web.NewServer(service, cfg)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		if err := service.WaitForBuilds(shutdownCtx); err != nil {
			slog.Warn("table builds did not finish in time", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// tableOptions builds the options every served table is created with.
func tableOptions(cfg *config.Config) (table.Options, error) {
	s, err := sanitize.ForMode(cfg.Table.Sanitizer)
	if err != nil {
		return table.Options{}, err
	}
	loc, err := cfg.Table.Location()
	if err != nil {
		return table.Options{}, err
	}
	return table.Options{
		Sanitizer:   s,
		Location:    loc,
		Placeholder: cfg.Table.Placeholder,
		Logger:      slog.Default(),
	}, nil
}
