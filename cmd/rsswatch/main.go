package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/rsswatch/internal/api"
	"github.com/bilgisen/rsswatch/internal/archive"
	"github.com/bilgisen/rsswatch/internal/cache"
	"github.com/bilgisen/rsswatch/internal/config"
	"github.com/bilgisen/rsswatch/internal/feed"
	"github.com/bilgisen/rsswatch/internal/logger"
	"github.com/bilgisen/rsswatch/internal/middleware"
	"github.com/bilgisen/rsswatch/internal/pipeline"
	"github.com/bilgisen/rsswatch/internal/scheduler"
	"github.com/bilgisen/rsswatch/internal/store"
	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting rsswatch...")

	// Open the sqlite store
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open store")
	}
	defer func() {
		log.Info().Msg("Closing store...")
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing store")
		}
	}()

	// Wire the seen-link cache: Redis when configured, in-memory otherwise
	var seen cache.SeenCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis cache")
		}
		seen = redisCache
		log.Info().Msg("Using Redis seen-link cache")
	} else {
		seen = cache.NewMemoryCache()
		log.Info().Msg("REDIS_URL not set, using in-memory seen-link cache")
	}
	defer func() {
		if err := seen.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache")
		}
	}()

	// Wire the optional R2 archive exporter
	var archiver pipeline.Archiver
	if cfg.ArchiveEnabled() {
		exporter, err := archive.NewExporter(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize archive exporter")
		}
		archiver = exporter
		log.Info().Str("bucket", cfg.R2Bucket).Msg("Archive export enabled")
	}

	// Build the ingest pipeline and its scheduler
	fetcher := feed.NewFetcher(cfg.FetchTimeout)
	pipe := pipeline.New(st, fetcher, seen, archiver, pipeline.Options{
		FetchTimeout:   cfg.FetchTimeout,
		MaxConcurrency: cfg.MaxConcurrency,
		CacheTTL:       cfg.CacheTTL,
	})
	sched := scheduler.New(pipe, cfg.FetchInterval)
	if err := sched.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer sched.Stop()

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Setup API routes
	api.SetupRoutes(app, api.NewHandlers(st, sched), cfg)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown the server; the deferred scheduler stop lets an in-flight
	// run finish before the store closes
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
