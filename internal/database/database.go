package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/workdesk/internal/config"
)

// DB owns the connection pool that the work item, case and event
// repositories share. Transactions are started from Pool by the services.
type DB struct {
	pool *pgxpool.Pool
}

// Pool returns the shared pool.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// PoolConfig parses databaseURL and applies the workdesk pool settings.
// Sizes already present in the URL (pool_max_conns, pool_min_conns) win.
func PoolConfig(databaseURL string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	params := cfg.ConnConfig.RuntimeParams
	if _, ok := params["application_name"]; !ok {
		params["application_name"] = config.DatabaseApplicationName
	}

	// ParseConfig fills in its own defaults, so only the URL tells us
	// whether the operator sized the pool explicitly.
	if !hasParam(databaseURL, "pool_max_conns") {
		cfg.MaxConns = config.DatabaseMaxConns
	}
	if !hasParam(databaseURL, "pool_min_conns") {
		cfg.MinConns = config.DatabaseMinConns
	}
	cfg.MaxConnIdleTime = config.DatabaseMaxConnIdleTime
	cfg.HealthCheckPeriod = config.DatabaseHealthCheckPeriod

	return cfg, nil
}

// hasParam reports whether a URL or keyword/value connection string sets name.
func hasParam(conn, name string) bool {
	return strings.Contains(conn, name+"=")
}

// New opens the pool and pings it once within DatabaseConnectTimeout.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	cfg, err := PoolConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.DatabaseConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("reach database %s: %w", cfg.ConnConfig.Database, err)
	}

	slog.Info("connected to postgres",
		"host", cfg.ConnConfig.Host,
		"database", cfg.ConnConfig.Database,
		"max_conns", cfg.MaxConns,
		"min_conns", cfg.MinConns,
	)

	return &DB{pool: pool}, nil
}

// Close waits for acquired connections to be released, then closes the pool.
func (db *DB) Close() {
	db.pool.Close()
	slog.Info("postgres pool closed")
}
