// Package postgres implements the store ports on PostgreSQL through lib/pq.
// The hunk vector is stored as jsonb and user aliases as text[].
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps a pooled PostgreSQL handle. It is injected into every repo; there
// is no package-level connection.
type DB struct {
	SQL *sql.DB
}

// Open connects to databaseURL, sizes the pool and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SQL: db}, nil
}

// Ping verifies the pool can reach the server.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.SQL.PingContext(ctx); err != nil {
		return storeErr(ctx, "ping", err)
	}
	return nil
}

// Close closes the pool.
func (db *DB) Close() error {
	return db.SQL.Close()
}
