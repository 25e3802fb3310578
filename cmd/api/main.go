package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vetfinder-my/platform/internal/api/router"
	"github.com/vetfinder-my/platform/internal/autosave"
	appconfig "github.com/vetfinder-my/platform/internal/config"
	"github.com/vetfinder-my/platform/internal/directory"
	"github.com/vetfinder-my/platform/internal/observability/metrics"
	"github.com/vetfinder-my/platform/pkg/logging"
)

func main() {
	// Local development reads .env; in deployment the variables come from
	// the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting vetfinder API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	directoryMetrics := metrics.NewDirectoryMetrics(registry)
	autosaveMetrics := metrics.NewAutosaveMetrics(registry)

	repo, statsRepo, cleanup, err := buildRepository(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize clinic store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	directoryHandler := directory.NewHandler(repo, statsRepo, logger, directoryMetrics)
	draftHandler := autosave.NewHandler(repo, autosave.Config{
		Debounce:        cfg.AutosaveDebounce,
		SavedDisplay:    cfg.AutosaveSavedDisplay,
		SaveTimeout:     cfg.AutosaveSaveTimeout,
		DisableAutosave: cfg.DisableAutosave,
	}, logger, autosaveMetrics)

	r := router.New(&router.Config{
		Logger:             logger,
		DirectoryHandler:   directoryHandler,
		DraftHandler:       draftHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		PublicRateLimit:    20,
		PublicRateBurst:    40,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildRepository wires the clinic store: Postgres by default, the
// in-memory store for demos, and a Redis read-through cache when
// REDIS_ADDR is set. Stats need database/sql, so they are only available
// on Postgres.
func buildRepository(cfg *appconfig.Config, logger *logging.Logger) (directory.Repository, *directory.StatsRepository, func(), error) {
	cleanup := func() {}

	var repo directory.Repository
	var statsRepo *directory.StatsRepository

	if cfg.UseMemoryStore {
		logger.Info("using in-memory clinic store")
		repo = directory.NewInMemoryRepository()
	} else {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, cleanup, err
		}
		statsDB, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			pool.Close()
			return nil, nil, cleanup, err
		}
		repo = directory.NewPostgresRepository(pool)
		statsRepo = directory.NewStatsRepository(statsDB)
		cleanup = func() {
			pool.Close()
			statsDB.Close()
		}
	}

	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		logger.Info("caching clinic listings in redis", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		repo = directory.NewCachedRepository(repo, client, cfg.CacheTTL, logger)
		inner := cleanup
		cleanup = func() {
			client.Close()
			inner()
		}
	}

	return repo, statsRepo, cleanup, nil
}
