// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the nextblog API server.
// It loads configuration, opens the configured store, wires the listing
// engine, the content service and the background workers, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nextblog/internal/cache"
	"nextblog/internal/config"
	"nextblog/internal/content"
	"nextblog/internal/database"
	"nextblog/internal/handlers"
	"nextblog/internal/listing"
	"nextblog/internal/media"
	"nextblog/internal/middleware"
	"nextblog/internal/router"
	"nextblog/internal/scheduler"
	"nextblog/internal/store"
	"nextblog/internal/store/memory"
	"nextblog/internal/store/mongo"
	"nextblog/internal/store/postgres"
	"nextblog/internal/worker"
)

func main() {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if !cfg.IsDev() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
	)

	ctx := context.Background()

	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Background tasks run detached from requests.
	pool := worker.New(worker.Config{
		Workers:   cfg.Workers,
		QueueSize: cfg.WorkerQueue,
		Timeout:   cfg.TaskTimeout,
	})
	pool.Start()

	categories := cache.NewCategoryCache(st, cfg.CategoryCacheSize, cfg.CategoryCacheTTL)
	engine := listing.NewEngine(st, categories, listing.Options{
		LegacySingleKeySort: cfg.LegacySingleKeySort,
	})

	indexer := media.NewIndexer(st, nil, media.Config{FetchTimeout: cfg.MediaFetchTimeout})
	service := content.NewService(st, pool, content.Options{}).WithIndexer(indexer)

	// Public listing pages are cached in Valkey when it is configured.
	if cfg.UseListCache() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()

		listCache := cache.NewListCache(valkeyClient, cfg.ListCacheTTL)
		engine.WithCache(listCache)
		service.WithInvalidator(listCache)
	} else {
		slog.Warn("valkey not configured, listing cache disabled")
	}

	if cfg.Seed {
		if err := service.Seed(ctx); err != nil {
			slog.Error("failed to seed store", "error", err)
			os.Exit(1)
		}
	}

	sched := scheduler.New(service, cfg.OrphanSweep, slog.Default())
	if err := sched.Start(); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	unlock := middleware.NewRateLimiter(10, time.Minute, middleware.PasswordAttempts)
	defer unlock.Stop()
	if err := unlock.TrustProxies(cfg.TrustedProxies...); err != nil {
		slog.Error("invalid TRUSTED_PROXIES", "error", err)
		os.Exit(1)
	}

	r := router.New(router.Deps{
		Posts:       handlers.NewPosts(engine, service),
		Store:       st,
		MasterToken: cfg.MasterToken,
		Unlock:      unlock,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections
	// and the task queue.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	sched.Stop()
	if err := pool.Stop(shutdownCtx); err != nil {
		slog.Warn("background tasks abandoned", "error", err)
	}

	slog.Info("server stopped gracefully")
}

// openStore connects the configured backend. Postgres runs pending
// migrations before it is used.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.Connect(database.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName))
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return postgres.New(db), nil
	case config.DriverMongo:
		s, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		slog.Warn("using the in-memory store, data is lost on restart")
		return memory.New(), nil
	}
}
