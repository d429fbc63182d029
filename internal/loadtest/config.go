package loadtest

import (
	"time"

	"github.com/okian/matchday/internal/domain/standings"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumMatches int           // Number of fixtures to submit
	NumTeams   int           // Size of the club pool fixtures are drawn from
	Duplicates float64       // Fraction of fixtures resubmitted with the same request id
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Settle     time.Duration // How long to wait for the table to catch up
	Seed       uint64        // Fixture generator seed; zero picks one
	OutputFile string        // Where generated fixtures are written
	Verbose    bool
}

// Team is the wire shape of a team without explicit starters; the service
// generates the squad.
type Team struct {
	Name      string `json:"name"`
	Formation string `json:"formation,omitempty"`
}

// Fixture is one POST /matches body.
type Fixture struct {
	RequestID string `json:"request_id"`
	HomeTeam  Team   `json:"home_team"`
	AwayTeam  Team   `json:"away_team"`
}

// AckResponse is the body returned by POST /matches.
type AckResponse struct {
	MatchID   string `json:"match_id"`
	RequestID string `json:"request_id"`
	Duplicate bool   `json:"duplicate"`
}

// Standings is the body returned by GET /standings.
type Standings struct {
	Matches int             `json:"matches"`
	Rows    []standings.Row `json:"rows"`
}

// Stats holds run statistics.
type Stats struct {
	FixturesGenerated int
	Submitted         int
	Accepted          int
	Duplicate         int
	Rejected          int
	Failed            int
	BaselineMatches   int
	FinalMatches      int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// Normalize fills zero fields with defaults and clamps the rest.
func (c *Config) Normalize() {
	if c.NumTeams < 2 {
		c.NumTeams = DefaultNumTeams
	}
	if c.Workers < 1 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Settle <= 0 {
		c.Settle = DefaultSettle
	}
	c.Duplicates = min(max(c.Duplicates, 0), 1)
	c.NumMatches = max(c.NumMatches, 0)
}
