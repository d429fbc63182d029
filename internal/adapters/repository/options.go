package repository

import (
	"time"

	"github.com/okian/matchday/pkg/logger"
)

// Option applies a configuration option to Open.
type Option func(*DB)

// WithMaxOpenConns caps open connections. SQLite serializes writers, so a
// small pool is enough.
func WithMaxOpenConns(n int) Option {
	return func(db *DB) {
		if n > 0 {
			db.maxOpenConns = n
		}
	}
}

// WithConnMaxLifetime recycles connections after d.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(db *DB) {
		if d > 0 {
			db.connMaxLifetime = d
		}
	}
}

// WithLogger sets the repository logger.
func WithLogger(l logger.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.log = l
		}
	}
}
