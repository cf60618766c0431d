// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"taxocms/internal/cache"
	"taxocms/internal/category"
	"taxocms/internal/config"
	"taxocms/internal/database"
	"taxocms/internal/event"
	"taxocms/internal/handlers"
	"taxocms/internal/media"
	"taxocms/internal/middleware"
	"taxocms/internal/module"
	"taxocms/internal/pages"
	"taxocms/internal/router"
	"taxocms/internal/storage"
	"taxocms/internal/store"
)

// shutdownTimeout bounds the graceful shutdown of the server, the trash
// scheduler and the event bus.
const shutdownTimeout = 30 * time.Second

// loadConfig loads the configuration and installs the production logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if !cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})))
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
	return cfg, nil
}

// openDB connects to PostgreSQL and applies pending migrations.
func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

// openStorage connects to S3-compatible object storage. It returns nil
// when storage is not configured; the app works without it.
func openStorage(cfg *config.Config) (*storage.Client, error) {
	if !cfg.HasStorage() {
		slog.Warn("s3 storage not configured, media uploads disabled")
		return nil, nil
	}
	client, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
	)
	if err != nil {
		return nil, fmt.Errorf("initialize s3 storage: %w", err)
	}
	slog.Info("s3 storage connected",
		"endpoint", cfg.S3Endpoint,
		"public_bucket", cfg.S3BucketPublic,
		"private_bucket", cfg.S3BucketPrivate,
	)
	return client, nil
}

// openValkey connects to Valkey. It returns nil when Valkey is
// unreachable; the exists cache and rate limiting are then disabled.
func openValkey(cfg *config.Config) *redis.Client {
	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, exists cache and rate limiting disabled", "error", err)
		return nil
	}
	return client
}

func runMigrate(seed bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if seed {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}
	slog.Info("migrations applied")
	return nil
}

func runSweep(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	s3, err := openStorage(cfg)
	if err != nil {
		return err
	}
	collector := media.NewCollector(media.NewScopeFunc(db, s3, cfg.Storage))
	if err := collector.Sweep(ctx); err != nil {
		return fmt.Errorf("sweep trash: %w", err)
	}
	slog.Info("trash sweep finished")
	return nil
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	valkeyClient := openValkey(cfg)
	var existsCache *cache.ExistsCache
	if valkeyClient != nil {
		defer valkeyClient.Close()
		existsCache = cache.NewExistsCache(valkeyClient, cfg.ExistsCacheTTL)
	}

	s3, err := openStorage(cfg)
	if err != nil {
		return err
	}

	// Side effects of deletions run on the bus; their failures land in
	// the failure log.
	failures := store.NewFailureLogStore(db)
	bus := event.New(cfg.EventWorkers, cfg.EventBuffer, failures)
	collector := media.NewCollector(media.NewScopeFunc(db, s3, cfg.Storage))

	registry := category.NewRegistry()
	if err := module.Boot(registry, bus,
		pages.NewModule(existsCache),
		media.NewModule(collector),
	); err != nil {
		bus.Shutdown()
		return err
	}

	categories := category.NewService(registry, db)
	r := router.New(router.Handlers{
		Categories: handlers.NewCategories(categories, registry),
		Pages:      handlers.NewPages(pages.NewService(db, existsCache, bus, categories)),
		Media:      handlers.NewMedia(media.NewService(db, s3, bus, categories)),
		Failures:   handlers.NewFailures(failures),
	}, router.Options{
		Limiter:     middleware.NewRateLimiter(valkeyClient, cfg.RateLimitPerMinute, time.Minute, cfg.TrustProxyHeaders),
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	var scheduler *media.Scheduler
	if cfg.Storage.TrashSweepSchedule != "" {
		scheduler, err = media.NewScheduler(cfg.Storage.TrashSweepSchedule, collector)
		if err != nil {
			bus.Shutdown()
			return err
		}
		scheduler.Start()
	}

	// WriteTimeout must accommodate 50 MB uploads on slow links.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			bus.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete, then stop the
	// background work they may have queued.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	bus.Shutdown()

	slog.Info("server stopped gracefully")
	return nil
}
