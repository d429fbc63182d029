// Package players builds randomized players and squads.
package players

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/ident"
)

// Attribute bounds used when none are given.
const (
	DefaultMinAttribute = 1
	DefaultMaxAttribute = 20

	// boostCap is the ceiling a positional boost can lift an attribute to.
	boostCap = 20
)

// NameSource supplies full names. *names.Generator satisfies it.
type NameSource interface {
	GenerateName() string
}

// boost adds delta to one attribute.
type boost struct {
	field func(*model.Attributes) *float64
	delta float64
}

func speed(a *model.Attributes) *float64     { return &a.Speed }
func strength(a *model.Attributes) *float64  { return &a.Strength }
func agility(a *model.Attributes) *float64   { return &a.Agility }
func passing(a *model.Attributes) *float64   { return &a.Passing }
func finishing(a *model.Attributes) *float64 { return &a.Finishing }
func technique(a *model.Attributes) *float64 { return &a.Technique }
func defending(a *model.Attributes) *float64 { return &a.Defending }
func stamina(a *model.Attributes) *float64   { return &a.Stamina }
func awareness(a *model.Attributes) *float64 { return &a.Awareness }
func composure(a *model.Attributes) *float64 { return &a.Composure }

var positionBoosts = map[model.Position][]boost{
	model.PositionGK:  {{agility, 3}, {composure, 2}, {awareness, 2}},
	model.PositionCB:  {{defending, 4}, {strength, 2}, {awareness, 2}},
	model.PositionLB:  {{defending, 2}, {speed, 2}, {stamina, 2}},
	model.PositionRB:  {{defending, 2}, {speed, 2}, {stamina, 2}},
	model.PositionCDM: {{defending, 3}, {passing, 2}, {awareness, 2}},
	model.PositionCM:  {{passing, 3}, {stamina, 3}, {technique, 2}},
	model.PositionCAM: {{passing, 3}, {technique, 3}, {composure, 2}},
	model.PositionLM:  {{speed, 3}, {passing, 2}, {stamina, 3}},
	model.PositionRM:  {{speed, 3}, {passing, 2}, {stamina, 3}},
	model.PositionLW:  {{speed, 4}, {technique, 2}, {agility, 2}},
	model.PositionRW:  {{speed, 4}, {technique, 2}, {agility, 2}},
	model.PositionST:  {{finishing, 4}, {speed, 2}, {composure, 2}},
	model.PositionCF:  {{finishing, 3}, {technique, 3}, {composure, 2}},
}

// formationSlots lists the eleven starting positions of each formation.
var formationSlots = map[model.Formation][]model.Position{
	model.Formation442: {
		model.PositionGK, model.PositionLB, model.PositionCB, model.PositionCB, model.PositionRB,
		model.PositionLM, model.PositionCM, model.PositionCM, model.PositionRM,
		model.PositionST, model.PositionST,
	},
	model.Formation433: {
		model.PositionGK, model.PositionLB, model.PositionCB, model.PositionCB, model.PositionRB,
		model.PositionCM, model.PositionCDM, model.PositionCM,
		model.PositionLW, model.PositionST, model.PositionRW,
	},
	model.Formation352: {
		model.PositionGK, model.PositionCB, model.PositionCB, model.PositionCB,
		model.PositionLM, model.PositionCM, model.PositionCDM, model.PositionCM, model.PositionRM,
		model.PositionST, model.PositionST,
	},
	model.Formation4231: {
		model.PositionGK, model.PositionLB, model.PositionCB, model.PositionCB, model.PositionRB,
		model.PositionCDM, model.PositionCDM,
		model.PositionLM, model.PositionCAM, model.PositionRM,
		model.PositionST,
	},
	model.Formation532: {
		model.PositionGK, model.PositionLB, model.PositionCB, model.PositionCB, model.PositionCB, model.PositionRB,
		model.PositionCM, model.PositionCDM, model.PositionCM,
		model.PositionST, model.PositionST,
	},
	model.Formation451: {
		model.PositionGK, model.PositionLB, model.PositionCB, model.PositionCB, model.PositionRB,
		model.PositionLM, model.PositionCM, model.PositionCDM, model.PositionCM, model.PositionRM,
		model.PositionST,
	},
	model.Formation343: {
		model.PositionGK, model.PositionCB, model.PositionCB, model.PositionCB,
		model.PositionLM, model.PositionCM, model.PositionCM, model.PositionRM,
		model.PositionLW, model.PositionST, model.PositionRW,
	},
}

var substituteSlots = []model.Position{model.PositionGK, model.PositionCB, model.PositionCM}

// Slots returns the starting positions of formation.
func Slots(formation model.Formation) ([]model.Position, bool) {
	slots, ok := formationSlots[formation]
	return append([]model.Position(nil), slots...), ok
}

// Generator creates players with uniform random attributes plus positional
// boosts. It is safe for concurrent use.
type Generator struct {
	names    NameSource
	newID    func() string
	min, max int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes attribute rolls deterministic.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
	}
}

// WithIDFunc overrides player and team id generation.
func WithIDFunc(fn func() string) Option {
	return func(g *Generator) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// WithAttributeRange sets the bounds GenerateTeam uses.
func WithAttributeRange(minAttr, maxAttr int) Option {
	return func(g *Generator) {
		g.min, g.max = minAttr, maxAttr
	}
}

// New returns a generator drawing names from names.
func New(names NameSource, opts ...Option) *Generator {
	g := &Generator{
		names: names,
		newID: ident.V4,
		min:   DefaultMinAttribute,
		max:   DefaultMaxAttribute,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GeneratePlayer rolls every attribute uniformly in [minAttr, maxAttr] and
// applies the position's boosts, each capped at 20.
func (g *Generator) GeneratePlayer(pos model.Position, minAttr, maxAttr int) model.Player {
	if maxAttr < minAttr {
		minAttr, maxAttr = maxAttr, minAttr
	}
	return model.Player{
		ID:         g.newID(),
		Name:       g.names.GenerateName(),
		Position:   pos,
		Attributes: g.attributes(pos, minAttr, maxAttr),
	}
}

func (g *Generator) attributes(pos model.Position, minAttr, maxAttr int) model.Attributes {
	g.mu.Lock()
	roll := func() float64 { return float64(g.rng.IntN(maxAttr-minAttr+1) + minAttr) }
	a := model.Attributes{
		Speed:     roll(),
		Strength:  roll(),
		Agility:   roll(),
		Passing:   roll(),
		Finishing: roll(),
		Technique: roll(),
		Defending: roll(),
		Stamina:   roll(),
		Awareness: roll(),
		Composure: roll(),
	}
	g.mu.Unlock()

	for _, b := range positionBoosts[pos] {
		v := b.field(&a)
		*v = min(boostCap, *v+b.delta)
	}
	return a
}

// GenerateTeam builds eleven starters for formation and three substitutes.
func (g *Generator) GenerateTeam(name string, formation model.Formation) (model.Team, error) {
	slots, ok := formationSlots[formation]
	if !ok {
		return model.Team{}, fmt.Errorf("%w: %s", ErrUnknownFormation, formation)
	}
	team := model.Team{
		ID:          g.newID(),
		Name:        name,
		Formation:   formation,
		Starters:    make([]model.Player, 0, len(slots)),
		Substitutes: make([]model.Player, 0, len(substituteSlots)),
		Tactics: &model.Tactics{
			AttackingMentality: "balanced",
			PassingStyle:       "mixed",
			Tempo:              "medium",
			Width:              "balanced",
		},
	}
	for _, pos := range slots {
		team.Starters = append(team.Starters, g.GeneratePlayer(pos, g.min, g.max))
	}
	for _, pos := range substituteSlots {
		team.Substitutes = append(team.Substitutes, g.GeneratePlayer(pos, g.min, g.max))
	}
	return team, nil
}
