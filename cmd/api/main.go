// cmd/api/main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"socialpulse/internal/adapter/events"
	"socialpulse/internal/adapter/render"
	"socialpulse/internal/adapter/source"
	"socialpulse/internal/adapter/storage"
	"socialpulse/internal/config"
	"socialpulse/internal/domain/pulse"
	"socialpulse/internal/metrics"
	"socialpulse/internal/server"
	"socialpulse/internal/service/cluster"
	"socialpulse/internal/service/entity"
	"socialpulse/internal/service/forecast"
	"socialpulse/internal/service/pipeline"
	"socialpulse/internal/service/sentiment"
	"socialpulse/internal/service/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Service exited", "error", err)
		os.Exit(1)
	}
}

// run wires the service and blocks until a shutdown signal or a server
// failure. Deferred closes always run before it returns.
func run() error {
	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(cfg.Environment)
	slog.SetDefault(logger)
	metrics.Init(cfg.Version, cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Upstream sources; the first registered is the default
	fetchers := []pulse.PageFetcher{
		source.NewRedditClient(source.RedditConfig{
			BaseURL:   cfg.Reddit.BaseURL,
			UserAgent: cfg.Reddit.UserAgent,
			Sort:      cfg.Reddit.Sort,
			Timeout:   cfg.Reddit.Timeout,
		}),
	}
	if cfg.Twitter.Enabled {
		fetchers = append(fetchers, source.NewTwitterClient(source.TwitterConfig{
			BearerToken: cfg.Twitter.BearerToken,
			Host:        cfg.Twitter.Host,
			Timeout:     cfg.Twitter.Timeout,
		}))
	}
	registry := source.NewRegistry(fetchers...)

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	deps := server.Dependencies{
		Render: render.Config{
			Width:  cfg.Render.Width,
			Height: cfg.Render.Height,
		},
	}

	// Run archive
	if cfg.Database.Enabled {
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		runStore := storage.NewRunStore(db)
		if err := runStore.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		opts = append(opts, pipeline.WithRecorder(runStore))
		deps.Runs = runStore
	}

	// Run events: NATS when enabled so every instance's runs reach every
	// listener, an in-process hub otherwise
	if cfg.NATS.Enabled {
		natsConn, err := initNATS(cfg.NATS)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsConn.Close()

		opts = append(opts, pipeline.WithPublisher(events.NewNATSPublisher(natsConn, cfg.NATS.EventsTopic)))
		deps.Events = events.NewNATSFeed(natsConn, cfg.NATS.EventsTopic)
	} else {
		hub := events.NewHub()
		opts = append(opts, pipeline.WithPublisher(hub))
		deps.Events = hub
	}

	deps.Pipeline = pipeline.New(
		registry,
		sentiment.NewScorer(),
		cluster.NewEngine(),
		forecast.NewEngine(),
		entity.NewProseExtractor(),
		worker.NewPool(cfg.Pipeline.WorkerPoolSize, cfg.Pipeline.HeavyTimeout),
		opts...,
	)

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, deps)

	// Start HTTP server
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
			"sources", registry.Names(),
			"archive", cfg.Database.Enabled,
			"nats", cfg.NATS.Enabled,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal or a failed listener
	select {
	case <-shutdown:
		slog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("Shutdown complete")
	return nil
}

func newLogger(environment string) *slog.Logger {
	if environment == "development" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
