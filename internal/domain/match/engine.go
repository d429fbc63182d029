package match

import (
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/okian/matchday/internal/domain/model"
)

// RandomSource yields uniform values in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewSeededSource returns a deterministic source for replays and tests.
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// newDefaultSource returns a randomly seeded source.
func newDefaultSource() RandomSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Generator produces one kind of event. CanGenerate must be pure; Generate
// may return nil when it cannot produce an event from the given context.
type Generator interface {
	CanGenerate(ctx EventContext) bool
	Generate(ctx EventContext) *MatchEvent
}

// Chainer is implemented by generators that can continue an event they just
// produced. The engine keeps only the first returned event.
type Chainer interface {
	ChainedEvents(event *MatchEvent, ctx EventContext) []*MatchEvent
}

// EventContext is the input handed to generators. It carries the state being
// evaluated, the engine's draw for this tick and the possessing players.
type EventContext struct {
	CurrentState    MatchState
	Probability     float64
	InvolvedPlayers []model.Player

	rng    RandomSource
	nextID func() string
}

// WithState returns a copy of the context evaluating s. Involved players are
// recomputed from the new possession.
func (c EventContext) WithState(s MatchState) EventContext {
	c.CurrentState = s
	c.InvolvedPlayers = s.Players(s.Possession)
	return c
}

func (c EventContext) random() float64 {
	return c.rng.Float64()
}

func (c EventContext) newID() string {
	return c.nextID()
}

// Engine owns the generator registry and picks at most one event per tick.
type Engine struct {
	mu         sync.Mutex
	rng        RandomSource
	generators map[EventType]Generator
	order      []EventType
	counter    int
}

// NewEngine returns an engine with no generators registered. A nil rng
// selects a randomly seeded source.
func NewEngine(rng RandomSource) *Engine {
	if rng == nil {
		rng = newDefaultSource()
	}
	return &Engine{
		rng:        rng,
		generators: make(map[EventType]Generator),
	}
}

// NewDefaultEngine registers pass, shot, goal and save in that order.
func NewDefaultEngine(rng RandomSource) *Engine {
	e := NewEngine(rng)
	e.Register(EventPass, PassGenerator{})
	e.Register(EventShot, ShotGenerator{})
	e.Register(EventGoal, GoalGenerator{})
	e.Register(EventSave, SaveGenerator{})
	return e
}

// Register binds g to t. Re-registering a type replaces the generator and
// keeps its original position in the selection order.
func (e *Engine) Register(t EventType, g Generator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.generators[t]; !exists {
		e.order = append(e.order, t)
	}
	e.generators[t] = g
}

// Registered returns the registered event types in selection order.
func (e *Engine) Registered() []EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]EventType(nil), e.order...)
}

// NextID returns the next event id of the form event-{n}.
func (e *Engine) NextID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counter++
	return "event-" + strconv.Itoa(e.counter)
}

// Context builds the generator context for state using the engine's source.
func (e *Engine) Context(state MatchState) EventContext {
	return EventContext{
		CurrentState:    state,
		InvolvedPlayers: state.Players(state.Possession),
		rng:             e.rng,
		nextID:          e.NextID,
	}
}

// GenerateEvent draws a probability, collects the eligible generators in
// registration order and asks one of them, chosen uniformly, for an event.
// It returns nil when nothing is eligible or the chosen generator declines;
// no other generator is tried.
func (e *Engine) GenerateEvent(state MatchState) *MatchEvent {
	ctx := e.Context(state)
	ctx.Probability = e.rng.Float64()

	e.mu.Lock()
	eligible := make([]Generator, 0, len(e.order))
	for _, t := range e.order {
		if g := e.generators[t]; g.CanGenerate(ctx) {
			eligible = append(eligible, g)
		}
	}
	e.mu.Unlock()

	if len(eligible) == 0 {
		return nil
	}
	g := eligible[pick(e.rng.Float64(), len(eligible))]
	event := g.Generate(ctx)
	if event == nil {
		return nil
	}
	if chainer, ok := g.(Chainer); ok {
		if chained := chainer.ChainedEvents(event, ctx); len(chained) > 0 {
			event.Chained = chained[0]
		}
	}
	return event
}

// pick maps r in [0,1) to an index in [0,n).
func pick(r float64, n int) int {
	i := int(r * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
