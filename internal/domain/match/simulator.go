package match

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
)

// Defaults applied by NewSimulatorForTeams.
const (
	DefaultMatchDuration   = 90
	DefaultEventsPerMinute = 3
)

// Clock boundaries.
const (
	halfTimeMinute        = 45
	secondHalfStartMinute = 46
	fullTimeMinute        = 90
)

// Config configures a simulator.
type Config struct {
	// MatchDuration is informational; half and full time are fixed at 45 and 90.
	MatchDuration int
	// EventsPerMinute bounds the sub-ticks drawn each minute. Zero still
	// produces one sub-tick; negative values usually produce none.
	EventsPerMinute int
	HomeTeam        model.Team
	AwayTeam        model.Team
}

// Simulator plays one match at a time. It is not safe for concurrent use;
// run one simulator per goroutine.
type Simulator struct {
	cfg      Config
	engine   *Engine
	rng      RandomSource
	log      logger.Logger
	observer func(MatchEvent)

	state  MatchState
	events []MatchEvent
}

// NewSimulator builds a simulator with the default generator set.
func NewSimulator(cfg Config, opts ...Option) *Simulator {
	s := &Simulator{cfg: cfg, log: logger.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = newDefaultSource()
	}
	if s.engine == nil {
		s.engine = NewDefaultEngine(s.rng)
	}
	s.reset()
	return s
}

// NewSimulatorForTeams builds a 90 minute simulator at three events per minute.
func NewSimulatorForTeams(home, away model.Team, opts ...Option) *Simulator {
	return NewSimulator(Config{
		MatchDuration:   DefaultMatchDuration,
		EventsPerMinute: DefaultEventsPerMinute,
		HomeTeam:        home,
		AwayTeam:        away,
	}, opts...)
}

// Engine exposes the simulator's engine so callers can register generators.
func (s *Simulator) Engine() *Engine {
	return s.engine
}

// Simulate plays a full match.
func (s *Simulator) Simulate() MatchResult {
	result, _ := s.SimulateContext(context.Background())
	return result
}

// SimulateContext plays a full match, checking ctx once per simulated minute.
// On cancellation it returns the partial result together with ctx.Err().
func (s *Simulator) SimulateContext(ctx context.Context) (MatchResult, error) {
	s.reset()
	s.log.Debug(ctx, "match started",
		logger.String("home", s.cfg.HomeTeam.Name),
		logger.String("away", s.cfg.AwayTeam.Name),
		logger.String("possession", string(s.state.Possession)))

	for s.state.Phase != PhaseFullTime {
		if err := ctx.Err(); err != nil {
			return s.result(), fmt.Errorf("simulate minute %d: %w", s.state.Minute, err)
		}
		s.simulateMinute()
		s.advanceClock(ctx)
	}

	s.log.Debug(ctx, "match finished",
		logger.Int("home_score", s.state.HomeScore),
		logger.Int("away_score", s.state.AwayScore),
		logger.Int("events", len(s.events)))
	return s.result(), nil
}

// CurrentState returns a copy of the live state.
func (s *Simulator) CurrentState() MatchState {
	return s.state
}

// Events returns a copy of the event log.
func (s *Simulator) Events() []MatchEvent {
	return append([]MatchEvent(nil), s.events...)
}

func (s *Simulator) reset() {
	possession := Home
	if s.rng.Float64() >= 0.5 {
		possession = Away
	}
	home := s.cfg.HomeTeam.Clone()
	away := s.cfg.AwayTeam.Clone()
	s.state = MatchState{
		Possession: possession,
		Ball:       kickoffSpot,
		Phase:      PhaseFirstHalf,
		HomeTeam:   home,
		AwayTeam:   away,
		CurrentPlayers: Lineups{
			Home: append([]model.Player(nil), home.Starters...),
			Away: append([]model.Player(nil), away.Starters...),
		},
		Bookings: Bookings{Yellow: []Booking{}, Red: []Booking{}},
	}
	s.events = nil
}

func (s *Simulator) simulateMinute() {
	// Negative rates usually give n <= 0, which skips the minute.
	n := int(math.Floor(s.rng.Float64()*float64(s.cfg.EventsPerMinute))) + 1
	for range n {
		if event := s.engine.GenerateEvent(s.state); event != nil {
			s.apply(event)
		}
	}
}

// apply appends event, adopts its resulting state and follows its chain.
func (s *Simulator) apply(event *MatchEvent) {
	s.record(*event)
	s.state = event.ResultingState
	if event.Chained != nil {
		s.apply(event.Chained)
	}
}

func (s *Simulator) record(event MatchEvent) {
	s.events = append(s.events, event)
	if s.observer != nil {
		s.observer(event)
	}
}

func (s *Simulator) advanceClock(ctx context.Context) {
	s.state.Minute++

	switch {
	case s.state.Minute == halfTimeMinute && s.state.Phase == PhaseFirstHalf:
		s.state.Phase = PhaseHalfTime
		s.record(MatchEvent{
			ID:             s.engine.NextID(),
			Type:           EventHalfTime,
			Minute:         s.state.Minute,
			Team:           Home,
			Description:    "Half Time",
			ResultingState: s.state,
		})
		s.log.Debug(ctx, "half time", logger.Int("home_score", s.state.HomeScore), logger.Int("away_score", s.state.AwayScore))

	case s.state.Minute == secondHalfStartMinute && s.state.Phase == PhaseHalfTime:
		s.state.Phase = PhaseSecondHalf
		kickoff := s.state.withPossessionFlipped()
		kickoff.Ball = kickoffSpot
		// The kickoff describes the restart; the live state keeps its
		// possession until the next event is applied.
		s.record(MatchEvent{
			ID:             s.engine.NextID(),
			Type:           EventKickoff,
			Minute:         s.state.Minute,
			Team:           kickoff.Possession,
			Description:    "Second Half begins",
			ResultingState: kickoff,
		})

	case s.state.Minute == fullTimeMinute && s.state.Phase == PhaseSecondHalf:
		s.state.Phase = PhaseFullTime
		s.record(MatchEvent{
			ID:     s.engine.NextID(),
			Type:   EventFullTime,
			Minute: s.state.Minute,
			Team:   Home,
			Description: fmt.Sprintf("Full Time: %s %d - %d %s",
				s.state.HomeTeam.Name, s.state.HomeScore, s.state.AwayScore, s.state.AwayTeam.Name),
			ResultingState: s.state,
		})
	}
}

func (s *Simulator) result() MatchResult {
	events := s.Events()
	return MatchResult{
		Events:     events,
		FinalState: s.state,
		Statistics: CalculateStatistics(events),
	}
}

// CalculateStatistics aggregates an event log.
func CalculateStatistics(events []MatchEvent) Statistics {
	var (
		stats      Statistics
		homeEvents int
		goals      Pair
		saves      Pair
	)
	for _, e := range events {
		if e.Team == Home {
			homeEvents++
		}
		switch e.Type {
		case EventShot:
			stats.Shots.add(e.Team, 1)
		case EventGoal:
			stats.Shots.add(e.Team, 1)
			goals.add(e.Team, 1)
		case EventSave:
			saves.add(e.Team, 1)
		}
	}

	stats.ShotsOnTarget = Pair{Home: goals.Home + saves.Away, Away: goals.Away + saves.Home}

	if len(events) > 0 {
		home := int(math.Floor(float64(homeEvents)/float64(len(events))*100 + 0.5))
		stats.Possession = Pair{Home: home, Away: 100 - home}
	}
	return stats
}

func (p *Pair) add(side Side, n int) {
	if side == Home {
		p.Home += n
		return
	}
	p.Away += n
}
