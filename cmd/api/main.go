package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course-booking/internal/asset"
	"course-booking/internal/cache"
	"course-booking/internal/config"
	"course-booking/internal/database"
	"course-booking/internal/events"
	"course-booking/internal/handler"
	"course-booking/internal/metrics"
	"course-booking/internal/repository"
	"course-booking/internal/router"
	"course-booking/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	started := time.Now()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting course-booking API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	lessonRepo := repository.NewLessonRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	lessonCache := newLessonCache(ctx, cfg.Redis, logger)
	defer lessonCache.Close()

	publisher := newPublisher(cfg.Kafka, logger)
	defer publisher.Close()

	registry := metrics.NewRegistry()

	images := newImageStore(ctx, cfg, logger)

	// Initialize services
	lessonService := service.NewLessonService(lessonRepo, lessonCache, logger)
	orderService := service.NewOrderService(orderRepo, lessonRepo, lessonCache, publisher, registry, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Lesson: handler.NewLessonHandler(lessonService, cfg.Server.PublicBaseURL, logger),
		Order:  handler.NewOrderHandler(orderService, logger),
		Search: handler.NewSearchHandler(lessonService, cfg.Server.PublicBaseURL, logger),
		Image:  handler.NewImageHandler(images, cfg.Images.Suggested, logger),
		System: handler.NewSystemHandler(started, logger),
	}, registry, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newLessonCache connects to Redis when enabled. An unreachable Redis
// disables caching instead of failing startup.
func newLessonCache(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) cache.LessonCache {
	if !cfg.Enabled {
		logger.Info().Msg("lesson cache disabled")
		return cache.NewNopLessonCache()
	}

	client, err := cache.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to redis, lesson cache disabled")
		return cache.NewNopLessonCache()
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Dur("ttl", cfg.TTL).
		Msg("lesson cache enabled")

	return cache.NewRedisLessonCache(client, cfg.TTL, logger)
}

func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) events.Publisher {
	if !cfg.Enabled {
		logger.Info().Msg("order event publishing disabled")
		return events.NewNopPublisher()
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("publishing order events to kafka")

	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, logger)
}

// newImageStore serves images from S3 when enabled, with the local images
// directory as fallback.
func newImageStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) asset.Store {
	fileStore := asset.NewFileStore(cfg.Images.Dir, logger)

	if !cfg.S3.Enabled {
		logger.Info().
			Str("dir", cfg.Images.Dir).
			Msg("using local file system for lesson images (S3 disabled)")
		return fileStore
	}

	s3Store, err := asset.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 image store, falling back to local file system only")
		return fileStore
	}

	return asset.NewFallbackStore(s3Store, fileStore, true, logger)
}
