// Package standings keeps a league table built from match results.
package standings

import (
	"sort"
	"strings"
)

// Points awarded per result.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// Result is the final score of one match.
type Result struct {
	MatchID   string `json:"match_id"`
	HomeID    string `json:"home_id"`
	HomeName  string `json:"home_name"`
	AwayID    string `json:"away_id"`
	AwayName  string `json:"away_name"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
}

// Row is one team's line in the table.
type Row struct {
	TeamID         string `json:"team_id"`
	Team           string `json:"team"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

func (r *Row) add(scored, conceded int) {
	r.Played++
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	r.GoalDifference = r.GoalsFor - r.GoalsAgainst
	switch {
	case scored > conceded:
		r.Won++
		r.Points += PointsWin
	case scored == conceded:
		r.Drawn++
		r.Points += PointsDraw
	default:
		r.Lost++
		r.Points += PointsLoss
	}
}

// Table maps team id to its row. The zero value is an empty table.
type Table struct {
	Rows    map[string]Row `json:"rows"`
	Matches int            `json:"matches"`
}

// NewTable returns an empty table.
func NewTable() Table {
	return Table{Rows: make(map[string]Row)}
}

// Record adds res to the table. Teams are created on first appearance and
// renamed to the latest name seen.
func (t *Table) Record(res Result) {
	if t.Rows == nil {
		t.Rows = make(map[string]Row)
	}
	t.apply(res.HomeID, res.HomeName, res.HomeGoals, res.AwayGoals)
	t.apply(res.AwayID, res.AwayName, res.AwayGoals, res.HomeGoals)
	t.Matches++
}

func (t *Table) apply(id, name string, scored, conceded int) {
	row, ok := t.Rows[id]
	if !ok {
		row = Row{TeamID: id}
	}
	if name != "" {
		row.Team = name
	}
	row.add(scored, conceded)
	t.Rows[id] = row
}

// Row returns the line of team id.
func (t Table) Row(id string) (Row, bool) {
	r, ok := t.Rows[id]
	return r, ok
}

// Sorted returns the rows ordered by points, goal difference, goals scored
// and then name.
func (t Table) Sorted() []Row {
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		if c := strings.Compare(a.Team, b.Team); c != 0 {
			return c < 0
		}
		return a.TeamID < b.TeamID
	})
	return rows
}
