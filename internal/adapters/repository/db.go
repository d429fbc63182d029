// Package repository persists match records and state blobs in SQLite.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/okian/matchday/pkg/logger"
)

const (
	defaultMaxOpenConns    = 4
	defaultConnMaxLifetime = 5 * time.Minute
	memoryPath             = ":memory:"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		id          TEXT PRIMARY KEY,
		request_id  TEXT NOT NULL DEFAULT '',
		home_team   TEXT NOT NULL,
		away_team   TEXT NOT NULL,
		home_score  INTEGER NOT NULL,
		away_score  INTEGER NOT NULL,
		source      TEXT NOT NULL DEFAULT '',
		result      TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_created_at ON matches (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

// DB is an open SQLite database with the schema applied.
type DB struct {
	*sql.DB
	log             logger.Logger
	maxOpenConns    int
	connMaxLifetime time.Duration
}

// Open opens or creates the database at path and migrates it. The special
// path ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, opts ...Option) (*DB, error) {
	db := &DB{
		maxOpenConns:    defaultMaxOpenConns,
		connMaxLifetime: defaultConnMaxLifetime,
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.log == nil {
		db.log = logger.Named("repository")
	}

	dsn := path
	if path == memoryPath {
		// Each pooled connection would otherwise see its own empty database,
		// and a recycled connection would drop it.
		db.maxOpenConns = 1
		db.connMaxLifetime = 0
	} else {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = path + "?_foreign_keys=on&_journal_mode=WAL&_timeout=10000"
	}

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(db.maxOpenConns)
	sqlDB.SetMaxIdleConns(db.maxOpenConns)
	sqlDB.SetConnMaxLifetime(db.connMaxLifetime)
	db.DB = sqlDB

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	db.log.Info(ctx, "database ready", logger.String("path", path))
	return db, nil
}

func (db *DB) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			name := strings.Fields(stmt)
			return fmt.Errorf("failed to migrate (%s): %w", strings.Join(name[:min(len(name), 6)], " "), err)
		}
	}
	return nil
}
