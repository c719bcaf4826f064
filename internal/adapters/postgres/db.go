package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/motmap/migrations"
	"github.com/samirrijal/motmap/internal/pkg/metrics"
)

// DB wraps pgxpool.Pool and provides a shared connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new DB connection pool. maxConns <= 0 keeps the pgx default.
func New(ctx context.Context, dsn string, maxConns int32) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases pool resources.
func (db *DB) Close() {
	db.Pool.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// ReportPoolStats exports pool statistics every interval until ctx is done.
func (db *DB) ReportPoolStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		}
	}
}

// Migrate applies every up migration in order.
func (db *DB) Migrate(ctx context.Context) error {
	steps, err := migrations.Up()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	for _, st := range steps {
		if _, err := db.Pool.Exec(ctx, st.SQL); err != nil {
			return fmt.Errorf("apply %s: %w", st.Name, err)
		}
	}
	return nil
}

// MigrateDown reverts every migration, newest first.
func (db *DB) MigrateDown(ctx context.Context) error {
	steps, err := migrations.Down()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	for _, st := range steps {
		if _, err := db.Pool.Exec(ctx, st.SQL); err != nil {
			return fmt.Errorf("revert %s: %w", st.Name, err)
		}
	}
	return nil
}
