// Package match simulates a football match as a chain of probability
// weighted events applied to a copy-on-write match state.
package match

import "github.com/okian/matchday/internal/domain/model"

// Side identifies one of the two teams in a match.
type Side string

// Team sides.
const (
	Home Side = "home"
	Away Side = "away"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Zone is a band of the pitch. Zones form an ordered track from the home box
// to the away box.
type Zone string

// Pitch zones in track order.
const (
	ZoneHomeBox     Zone = "home_box"
	ZoneHomeThird   Zone = "home_third"
	ZoneMiddleThird Zone = "middle_third"
	ZoneAwayThird   Zone = "away_third"
	ZoneAwayBox     Zone = "away_box"
)

var zoneTrack = []Zone{ZoneHomeBox, ZoneHomeThird, ZoneMiddleThird, ZoneAwayThird, ZoneAwayBox}

// index returns the zone's position on the track, -1 if unknown.
func (z Zone) index() int {
	for i, candidate := range zoneTrack {
		if candidate == z {
			return i
		}
	}
	return -1
}

// Lane is the horizontal channel of the ball. Empty means unspecified.
type Lane string

// Lanes.
const (
	LaneLeft   Lane = "left"
	LaneCenter Lane = "center"
	LaneRight  Lane = "right"
)

// BallPosition locates the ball.
type BallPosition struct {
	Zone Zone `json:"zone"`
	Lane Lane `json:"side,omitempty"`
}

// kickoffSpot is where the ball is placed after a goal, a shot or a kickoff.
var kickoffSpot = BallPosition{Zone: ZoneMiddleThird, Lane: LaneCenter}

// Phase is the match period. It only moves forward.
type Phase string

// Phases in order.
const (
	PhaseFirstHalf  Phase = "first_half"
	PhaseHalfTime   Phase = "half_time"
	PhaseSecondHalf Phase = "second_half"
	PhaseFullTime   Phase = "full_time"
)

// InPlay reports whether the ball is live during this phase.
func (p Phase) InPlay() bool {
	return p == PhaseFirstHalf || p == PhaseSecondHalf
}

// EventType names a kind of match event.
type EventType string

// Event types. Only pass, shot, goal, save, kickoff, half_time and full_time
// are produced by the simulator today.
const (
	EventKickoff      EventType = "kickoff"
	EventPass         EventType = "pass"
	EventDribble      EventType = "dribble"
	EventShot         EventType = "shot"
	EventGoal         EventType = "goal"
	EventSave         EventType = "save"
	EventCorner       EventType = "corner"
	EventThrowIn      EventType = "throw_in"
	EventFreeKick     EventType = "free_kick"
	EventPenalty      EventType = "penalty"
	EventOffside      EventType = "offside"
	EventFoul         EventType = "foul"
	EventYellowCard   EventType = "yellow_card"
	EventRedCard      EventType = "red_card"
	EventSubstitution EventType = "substitution"
	EventHalfTime     EventType = "half_time"
	EventFullTime     EventType = "full_time"
)

// Booking records a card shown to a player.
type Booking struct {
	PlayerID string `json:"player_id"`
	Team     Side   `json:"team"`
	Minute   int    `json:"minute"`
}

// Bookings groups cards by colour.
type Bookings struct {
	Yellow []Booking `json:"yellow"`
	Red    []Booking `json:"red"`
}

// Lineups holds the players currently on the pitch for each side.
type Lineups struct {
	Home []model.Player `json:"home"`
	Away []model.Player `json:"away"`
}

// MatchState is the authoritative snapshot of a match. It is passed and
// returned by value; generators derive successors from a copy and never
// write into slices they did not allocate.
type MatchState struct {
	Minute         int          `json:"minute"`
	HomeScore      int          `json:"home_score"`
	AwayScore      int          `json:"away_score"`
	Possession     Side         `json:"possession"`
	Ball           BallPosition `json:"ball_position"`
	Phase          Phase        `json:"phase"`
	HomeTeam       model.Team   `json:"home_team"`
	AwayTeam       model.Team   `json:"away_team"`
	CurrentPlayers Lineups      `json:"current_players"`
	Bookings       Bookings     `json:"bookings"`
}

// Players returns the lineup for side.
func (s MatchState) Players(side Side) []model.Player {
	if side == Home {
		return s.CurrentPlayers.Home
	}
	return s.CurrentPlayers.Away
}

// withPossessionFlipped returns a copy with possession handed to the other side.
func (s MatchState) withPossessionFlipped() MatchState {
	s.Possession = s.Possession.Opponent()
	return s
}

// MatchEvent is one entry of the match log. Chained, when set, is the
// immediate continuation at the same minute (pass -> shot -> goal|save).
type MatchEvent struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	Minute         int         `json:"minute"`
	Team           Side        `json:"team"`
	PlayerID       string      `json:"player_id,omitempty"`
	Description    string      `json:"description"`
	Quality        float64     `json:"quality,omitempty"`
	ResultingState MatchState  `json:"-"`
	Chained        *MatchEvent `json:"chained_event,omitempty"`
}

// Pair is a home/away statistic.
type Pair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// CardStatistics groups card counts.
type CardStatistics struct {
	Yellow Pair `json:"yellow"`
	Red    Pair `json:"red"`
}

// Statistics summarizes a finished match.
type Statistics struct {
	Possession    Pair           `json:"possession"`
	Shots         Pair           `json:"shots"`
	ShotsOnTarget Pair           `json:"shots_on_target"`
	Corners       Pair           `json:"corners"`
	Fouls         Pair           `json:"fouls"`
	Cards         CardStatistics `json:"cards"`
}

// MatchResult is the terminal snapshot returned by a simulation.
type MatchResult struct {
	Events     []MatchEvent `json:"events"`
	FinalState MatchState   `json:"final_state"`
	Statistics Statistics   `json:"statistics"`
}
