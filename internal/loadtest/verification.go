package loadtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/matchday/internal/domain/standings"
	"github.com/okian/matchday/pkg/logger"
)

// ErrInconsistent reports a league table that breaks an accounting rule.
var ErrInconsistent = errors.New("standings inconsistent")

// fetchStandings reads the current table.
func fetchStandings(ctx context.Context, client *HTTPClient) (Standings, error) {
	var s Standings
	if err := client.getJSON(ctx, "/standings", &s); err != nil {
		return Standings{}, fmt.Errorf("fetch standings: %w", err)
	}
	return s, nil
}

// waitForStandings polls until the table has counted want matches or settle
// elapses. The last table read is returned either way.
func waitForStandings(ctx context.Context, client *HTTPClient, want int, settle time.Duration) (Standings, error) {
	ctx, cancel := context.WithTimeout(ctx, settle)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var last Standings
	for {
		s, err := fetchStandings(ctx, client)
		if err == nil {
			last = s
			if s.Matches >= want {
				return s, nil
			}
		}
		select {
		case <-ctx.Done():
			return last, fmt.Errorf("table reached %d of %d matches: %w", last.Matches, want, ctx.Err())
		case <-ticker.C:
		}
	}
}

// verifyStandings checks that every row balances and the table as a whole
// accounts for the matches it claims.
func verifyStandings(s Standings) error {
	var problems []string
	var played, won, drawn, lost, gf, ga int

	for i, r := range s.Rows {
		if r.Won+r.Drawn+r.Lost != r.Played {
			problems = append(problems, fmt.Sprintf("%s: W+D+L=%d, played=%d", r.Team, r.Won+r.Drawn+r.Lost, r.Played))
		}
		if want := 3*r.Won + r.Drawn; r.Points != want {
			problems = append(problems, fmt.Sprintf("%s: points=%d, want %d", r.Team, r.Points, want))
		}
		if want := r.GoalsFor - r.GoalsAgainst; r.GoalDifference != want {
			problems = append(problems, fmt.Sprintf("%s: goal difference=%d, want %d", r.Team, r.GoalDifference, want))
		}
		if i > 0 && ranksAbove(r, s.Rows[i-1]) {
			problems = append(problems, fmt.Sprintf("row %d (%s) should rank above row %d (%s)", i, r.Team, i-1, s.Rows[i-1].Team))
		}
		played += r.Played
		won += r.Won
		drawn += r.Drawn
		lost += r.Lost
		gf += r.GoalsFor
		ga += r.GoalsAgainst
	}

	if played != 2*s.Matches {
		problems = append(problems, fmt.Sprintf("appearances=%d, want %d for %d matches", played, 2*s.Matches, s.Matches))
	}
	if won != lost {
		problems = append(problems, fmt.Sprintf("wins=%d, losses=%d", won, lost))
	}
	if drawn%2 != 0 {
		problems = append(problems, fmt.Sprintf("draws=%d is odd", drawn))
	}
	if gf != ga {
		problems = append(problems, fmt.Sprintf("goals for=%d, goals against=%d", gf, ga))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInconsistent, strings.Join(problems, "; "))
	}
	return nil
}

// ranksAbove reports whether a should be listed before b.
func ranksAbove(a, b standings.Row) bool { //nolint:gocritic // hugeParam: rows are small
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return a.GoalDifference > b.GoalDifference
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	if a.Team != b.Team {
		return a.Team < b.Team
	}
	return a.TeamID < b.TeamID
}

// displayTopClubs logs the head of the table.
func displayTopClubs(ctx context.Context, s Standings, n int) {
	n = min(n, len(s.Rows))
	for i, r := range s.Rows[:n] {
		logger.Get().Info(ctx, "table",
			logger.Int("pos", i+1),
			logger.String("team", r.Team),
			logger.Int("played", r.Played),
			logger.Int("gd", r.GoalDifference),
			logger.Int("points", r.Points))
	}
}
