package model

import "time"

// MatchJob is a queued request to simulate one fixture.
type MatchJob struct {
	MatchID         string    // id the result will be stored under
	RequestID       string    // caller-supplied idempotency key
	HomeTeam        Team      // full home squad
	AwayTeam        Team      // full away squad
	EventsPerMinute int       // upper bound of sub-ticks per minute
	Source          string    // "api", "timeline", ...
	EnqueuedAt      time.Time // when the job entered the queue
}

// MatchRequest asks for one fixture. A team without starters is generated
// from its name and formation.
type MatchRequest struct {
	RequestID       string `json:"request_id,omitempty"` // optional idempotency key
	HomeTeam        Team   `json:"home_team"`
	AwayTeam        Team   `json:"away_team"`
	EventsPerMinute int    `json:"events_per_minute,omitempty"` // zero uses the service default
	Source          string `json:"source,omitempty"`
}

// MomentSpec describes a timeline entry to schedule. A non-nil Fixture makes
// the moment enqueue that match when it fires.
type MomentSpec struct {
	ID          string        `json:"id,omitempty"` // generated when empty
	Name        string        `json:"name"`
	Date        time.Time     `json:"date"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Fixture     *MatchRequest `json:"fixture,omitempty"`
}
