package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okian/matchday/pkg/metrics"
)

// KVStore keeps opaque blobs by key. It backs persisted state managers.
type KVStore struct {
	db *DB
}

// NewKVStore returns a key-value store backed by db.
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the blob under key or ErrNotFound.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: key %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous blob.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		metrics.RecordErrorByComponent("repository", "put_kv")
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Load reports a missing key as ok=false instead of an error.
func (s *KVStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Save is Put under the name state managers expect.
func (s *KVStore) Save(ctx context.Context, key string, value []byte) error {
	return s.Put(ctx, key, value)
}
