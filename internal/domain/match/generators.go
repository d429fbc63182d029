package match

import (
	"math"

	"github.com/okian/matchday/internal/domain/model"
)

// Outcome tuning.
const (
	passChainShotChance = 0.3
	passAdvanceChance   = 0.6
	laneLeftChance      = 0.33
	laneCenterChance    = 0.5
	shotGoalThreshold   = 0.8
	shotSaveThreshold   = 0.5
)

// PassGenerator moves the ball one zone or loses it.
type PassGenerator struct{}

// CanGenerate reports whether play is live.
func (PassGenerator) CanGenerate(ctx EventContext) bool {
	return ctx.CurrentState.Phase.InPlay()
}

// Generate picks a passer and resolves the pass.
func (PassGenerator) Generate(ctx EventContext) *MatchEvent {
	state := ctx.CurrentState
	candidates := outfield(state.Players(state.Possession))
	if len(candidates) == 0 {
		return nil
	}
	passer := candidates[pick(ctx.random(), len(candidates))]

	success := ctx.random() < PassSuccessChance(passer, state.Ball)

	next := state
	if success {
		next.Ball = advanceBall(ctx, state.Ball)
	} else {
		next = next.withPossessionFlipped()
	}

	description := passer.Name + "'s pass is intercepted"
	if success {
		description = passer.Name + " completes a pass"
	}

	return &MatchEvent{
		ID:             ctx.newID(),
		Type:           EventPass,
		Minute:         state.Minute,
		Team:           state.Possession,
		PlayerID:       passer.ID,
		Description:    description,
		ResultingState: next,
	}
}

// ChainedEvents follows a completed pass with a shot 30% of the time.
func (PassGenerator) ChainedEvents(event *MatchEvent, ctx EventContext) []*MatchEvent {
	if event.Type != EventPass || !passCompleted(event) {
		return nil
	}
	if ctx.random() >= passChainShotChance {
		return nil
	}
	if shot := (ShotGenerator{}).Generate(ctx.WithState(event.ResultingState)); shot != nil {
		return []*MatchEvent{shot}
	}
	return nil
}

// passCompleted keys off the resulting possession: only a failed pass flips it.
func passCompleted(event *MatchEvent) bool {
	return event.ResultingState.Possession == event.Team
}

// PassSuccessChance is the probability that p completes a pass from ball.
func PassSuccessChance(p model.Player, ball BallPosition) float64 {
	base := (p.Attributes.Passing + p.Attributes.Technique*0.5) / 150
	position := 1.0
	if ball.Zone == ZoneAwayBox {
		position = 0.8
	}
	return base * position * (p.Attributes.Composure / 100)
}

// advanceBall moves the ball one zone along the track, forward with 60%
// probability, clamped at both ends, and re-rolls its lane.
func advanceBall(ctx EventContext, ball BallPosition) BallPosition {
	i := ball.Zone.index()
	forward := ctx.random() < passAdvanceChance
	switch {
	case forward && i < len(zoneTrack)-1:
		i++
	case !forward && i > 0:
		i--
	}
	if i < 0 {
		i = 0
	}
	return BallPosition{Zone: zoneTrack[i], Lane: rollLane(ctx)}
}

func rollLane(ctx EventContext) Lane {
	if ctx.random() < laneLeftChance {
		return LaneLeft
	}
	if ctx.random() < laneCenterChance {
		return LaneCenter
	}
	return LaneRight
}

// ShotGenerator takes a shot from the attacking third or box.
type ShotGenerator struct{}

// CanGenerate requires live play with the ball in the away third or box.
func (ShotGenerator) CanGenerate(ctx EventContext) bool {
	s := ctx.CurrentState
	return s.Phase.InPlay() && (s.Ball.Zone == ZoneAwayThird || s.Ball.Zone == ZoneAwayBox)
}

// Generate picks a shooter. The shot always ends the move: possession flips
// and the ball returns to the centre.
func (ShotGenerator) Generate(ctx EventContext) *MatchEvent {
	state := ctx.CurrentState
	players := state.Players(state.Possession)

	pool := attackers(players)
	if len(pool) == 0 {
		pool = outfield(players)
	}
	if len(pool) == 0 {
		return nil
	}
	shooter := pool[pick(ctx.random(), len(pool))]

	next := state.withPossessionFlipped()
	next.Ball = kickoffSpot

	return &MatchEvent{
		ID:             ctx.newID(),
		Type:           EventShot,
		Minute:         state.Minute,
		Team:           state.Possession,
		PlayerID:       shooter.ID,
		Description:    shooter.Name + " takes a shot",
		Quality:        ShotQuality(shooter, state.Ball),
		ResultingState: next,
	}
}

// ChainedEvents rolls the shot outcome: above 0.8 a goal, above 0.5 a save.
// Follow-ups are generated from the shot's resulting state.
func (ShotGenerator) ChainedEvents(event *MatchEvent, ctx EventContext) []*MatchEvent {
	if event.Type != EventShot {
		return nil
	}
	follow := ctx.WithState(event.ResultingState)

	var chained *MatchEvent
	switch r := ctx.random(); {
	case r > shotGoalThreshold:
		chained = GoalGenerator{}.Generate(follow)
	case r > shotSaveThreshold:
		chained = SaveGenerator{}.Generate(follow)
	}
	if chained == nil {
		return nil
	}
	return []*MatchEvent{chained}
}

// ShotQuality rates a shot in [0,1]. It is reported on the event and does not
// decide the outcome.
func ShotQuality(p model.Player, ball BallPosition) float64 {
	base := (p.Attributes.Finishing + p.Attributes.Technique*0.3) / 130
	position := 0.8
	if ball.Zone == ZoneAwayBox {
		position = 1.2
	}
	return math.Min(base*position*(p.Attributes.Composure/100), 1)
}

// GoalGenerator scores for the possessing side.
type GoalGenerator struct{}

// CanGenerate requires live play with the ball in the away box.
func (GoalGenerator) CanGenerate(ctx EventContext) bool {
	s := ctx.CurrentState
	return s.Phase.InPlay() && s.Ball.Zone == ZoneAwayBox
}

// Generate credits the first attacking player, or the first player listed.
func (GoalGenerator) Generate(ctx EventContext) *MatchEvent {
	state := ctx.CurrentState
	players := state.Players(state.Possession)
	if len(players) == 0 {
		return nil
	}
	scorer := players[0]
	if forwards := attackers(players); len(forwards) > 0 {
		scorer = forwards[0]
	}

	next := state
	if state.Possession == Home {
		next.HomeScore++
	} else {
		next.AwayScore++
	}
	next = next.withPossessionFlipped()
	next.Ball = kickoffSpot

	return &MatchEvent{
		ID:             ctx.newID(),
		Type:           EventGoal,
		Minute:         state.Minute,
		Team:           state.Possession,
		PlayerID:       scorer.ID,
		Description:    "GOAL! " + scorer.Name + " scores!",
		ResultingState: next,
	}
}

// SaveGenerator lets the defending goalkeeper stop a shot.
type SaveGenerator struct{}

// CanGenerate requires live play with the ball in the away box.
func (SaveGenerator) CanGenerate(ctx EventContext) bool {
	s := ctx.CurrentState
	return s.Phase.InPlay() && s.Ball.Zone == ZoneAwayBox
}

// Generate returns nil when the defending side fields no goalkeeper.
func (SaveGenerator) Generate(ctx EventContext) *MatchEvent {
	state := ctx.CurrentState
	defending := state.Possession.Opponent()

	var keeper *model.Player
	for i, p := range state.Players(defending) {
		if p.Position == model.PositionGK {
			keeper = &state.Players(defending)[i]
			break
		}
	}
	if keeper == nil {
		return nil
	}

	next := state.withPossessionFlipped()
	next.Ball = BallPosition{Zone: ZoneAwayThird, Lane: LaneCenter}

	return &MatchEvent{
		ID:             ctx.newID(),
		Type:           EventSave,
		Minute:         state.Minute,
		Team:           defending,
		PlayerID:       keeper.ID,
		Description:    "Great save by " + keeper.Name + "!",
		ResultingState: next,
	}
}

func outfield(players []model.Player) []model.Player {
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if p.Position != model.PositionGK {
			out = append(out, p)
		}
	}
	return out
}

func attackers(players []model.Player) []model.Player {
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if p.Position.IsAttacking() {
			out = append(out, p)
		}
	}
	return out
}
