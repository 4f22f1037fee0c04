package db

import (
	"context"
	"fmt"
	"time"

	"raccoon_ledger/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxConns       = 8
	connectTimeout = 5 * time.Second
	pingAttempts   = 5
	pingBackoff    = time.Second
)

// Connect opens the Postgres pool the ledgers restore from at boot. The
// database may still be coming up when the service starts, so the ping is
// retried with a flat backoff before the connector gives up.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	for attempt := 1; ; attempt++ {
		err = pool.Ping(ctx)
		if err == nil {
			break
		}
		if attempt == pingAttempts {
			pool.Close()
			return nil, fmt.Errorf("ping database after %d attempts: %w", pingAttempts, err)
		}
		logger.Warn("database not ready, retrying", "attempt", attempt, "error", err)
		select {
		case <-time.After(pingBackoff):
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		}
	}

	logger.Info("database connected", "max_conns", maxConns)
	return pool, nil
}
