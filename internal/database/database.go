package database

import (
	"context"
	"fmt"
	"time"

	"course-booking/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	idleConnTimeout = 30 * time.Minute
	healthInterval  = time.Minute
	pingTimeout     = 10 * time.Second
)

// NewPool opens the booking store pool from DATABASE_URL, or from the DB_*
// fields when no URL is configured, and waits until it answers a ping.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := buildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str("component", "booking-store").Logger()
	logger.Info().
		Str("source", connectionSource(cfg)).
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Int32("min_conns", poolConfig.MinConns).
		Dur("max_conn_lifetime", poolConfig.MaxConnLifetime).
		Msg("opening booking store")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database %q: %w", poolConfig.ConnConfig.Database, err)
	}

	logger.Info().
		Int32("open_conns", pool.Stat().TotalConns()).
		Msg("booking store ready")

	return pool, nil
}

func buildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from %s: %w", connectionSource(cfg), err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 && int32(cfg.MinConnections) <= poolConfig.MaxConns {
		poolConfig.MinConns = int32(cfg.MinConnections)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	}
	poolConfig.MaxConnIdleTime = idleConnTimeout
	poolConfig.HealthCheckPeriod = healthInterval

	return poolConfig, nil
}

// connectionSource names where the connection settings came from. The URL
// itself is never logged since it may carry a password.
func connectionSource(cfg config.DatabaseConfig) string {
	if cfg.URL != "" {
		return "DATABASE_URL"
	}
	return "DB_HOST"
}
