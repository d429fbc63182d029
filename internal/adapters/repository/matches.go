package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// MaxListLimit bounds a single List page.
const MaxListLimit = 500

// SQLiteMatchStore implements MatchStore on a DB.
type SQLiteMatchStore struct {
	db  *DB
	log logger.Logger
}

// NewMatchStore returns a match store backed by db.
func NewMatchStore(db *DB) *SQLiteMatchStore {
	return &SQLiteMatchStore{db: db, log: db.log.Named("matches")}
}

func (s *SQLiteMatchStore) Save(ctx context.Context, rec MatchRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	blob, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to encode match %s: %w", rec.ID, err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches (id, request_id, home_team, away_team, home_score, away_score, source, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RequestID, rec.HomeTeam, rec.AwayTeam, rec.HomeScore, rec.AwayScore, rec.Source, string(blob), rec.CreatedAt,
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: match %s", ErrDuplicate, rec.ID)
		}
		metrics.RecordErrorByComponent("repository", "save_match")
		return fmt.Errorf("failed to save match %s: %w", rec.ID, err)
	}

	s.log.Debug(ctx, "saved match",
		logger.String("id", rec.ID),
		logger.Int("home_score", rec.HomeScore),
		logger.Int("away_score", rec.AwayScore),
	)
	if n, err := s.Count(ctx); err == nil {
		metrics.UpdateMatchesStored(n)
	}
	return nil
}

func (s *SQLiteMatchStore) Get(ctx context.Context, id string) (MatchRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	var (
		rec  MatchRecord
		blob string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, request_id, home_team, away_team, home_score, away_score, source, result, created_at
		FROM matches WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.RequestID, &rec.HomeTeam, &rec.AwayTeam, &rec.HomeScore, &rec.AwayScore, &rec.Source, &blob, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchRecord{}, fmt.Errorf("%w: match %s", ErrNotFound, id)
	}
	if err != nil {
		return MatchRecord{}, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(blob), &rec.Result); err != nil {
		return MatchRecord{}, fmt.Errorf("failed to decode match %s: %w", id, err)
	}
	return rec, nil
}

func (s *SQLiteMatchStore) List(ctx context.Context, limit, offset int) ([]MatchSummary, error) {
	if limit <= 0 || limit > MaxListLimit {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	offset = max(offset, 0)

	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, home_team, away_team, home_score, away_score, source, created_at
		FROM matches ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	out := make([]MatchSummary, 0, limit)
	for rows.Next() {
		var m MatchSummary
		if err := rows.Scan(&m.ID, &m.HomeTeam, &m.AwayTeam, &m.HomeScore, &m.AwayScore, &m.Source, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return out, nil
}

func (s *SQLiteMatchStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}
