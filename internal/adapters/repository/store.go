package repository

import (
	"context"
	"time"

	"github.com/okian/matchday/internal/domain/match"
)

// MatchRecord is a finished simulation as stored.
type MatchRecord struct {
	ID        string            `json:"id"`
	RequestID string            `json:"request_id,omitempty"`
	HomeTeam  string            `json:"home_team"`
	AwayTeam  string            `json:"away_team"`
	HomeScore int               `json:"home_score"`
	AwayScore int               `json:"away_score"`
	Source    string            `json:"source,omitempty"`
	Result    match.MatchResult `json:"result"`
	CreatedAt time.Time         `json:"created_at"`
}

// MatchSummary is a MatchRecord without its event log.
type MatchSummary struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchStore provides read/write access to finished matches.
type MatchStore interface {
	// Save stores rec. Returns ErrDuplicate if the id is taken.
	Save(ctx context.Context, rec MatchRecord) error

	// Get returns the match with id or ErrNotFound.
	Get(ctx context.Context, id string) (MatchRecord, error)

	// List returns up to limit summaries, newest first.
	List(ctx context.Context, limit, offset int) ([]MatchSummary, error)

	// Count returns the number of stored matches.
	Count(ctx context.Context) (int, error)
}
