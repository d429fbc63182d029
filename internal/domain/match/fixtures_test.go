package match_test

import (
	"github.com/okian/matchday/internal/domain/match"
	"github.com/okian/matchday/internal/domain/model"
)

// scripted replays fixed draws and then returns zero forever.
type scripted struct {
	draws []float64
	next  int
}

func script(draws ...float64) *scripted {
	return &scripted{draws: draws}
}

func (s *scripted) Float64() float64 {
	if s.next >= len(s.draws) {
		return 0
	}
	v := s.draws[s.next]
	s.next++
	return v
}

func (s *scripted) used() int {
	return s.next
}

func perfect() model.Attributes {
	return model.Attributes{
		Speed: 100, Strength: 100, Agility: 100,
		Passing: 100, Finishing: 100, Technique: 100, Defending: 100, Stamina: 100,
		Awareness: 100, Composure: 100,
	}
}

func player(id, name string, pos model.Position, attrs model.Attributes) model.Player {
	return model.Player{ID: id, Name: name, Position: pos, Attributes: attrs}
}

// squad builds a four player side: keeper, defender, midfielder, striker.
func squad(prefix, name string, attrs model.Attributes) model.Team {
	return model.Team{
		ID:        prefix,
		Name:      name,
		Formation: model.Formation442,
		Starters: []model.Player{
			player(prefix+"-gk", name+" Keeper", model.PositionGK, attrs),
			player(prefix+"-cb", name+" Defender", model.PositionCB, attrs),
			player(prefix+"-cm", name+" Midfielder", model.PositionCM, attrs),
			player(prefix+"-st", name+" Striker", model.PositionST, attrs),
		},
	}
}

// liveState returns a first half state with home in possession at zone.
func liveState(zone match.Zone) match.MatchState {
	home := squad("h", "Home", perfect())
	away := squad("a", "Away", perfect())
	return match.MatchState{
		Minute:     10,
		Possession: match.Home,
		Ball:       match.BallPosition{Zone: zone, Lane: match.LaneCenter},
		Phase:      match.PhaseFirstHalf,
		HomeTeam:   home,
		AwayTeam:   away,
		CurrentPlayers: match.Lineups{
			Home: home.Starters,
			Away: away.Starters,
		},
	}
}

// contextFor builds a generator context whose draws come from rng.
func contextFor(state match.MatchState, rng match.RandomSource) match.EventContext {
	return match.NewEngine(rng).Context(state)
}
