package match

import "github.com/okian/matchday/pkg/logger"

// Option configures a Simulator.
type Option func(*Simulator)

// WithRandomSource injects the source of every draw the simulator and its
// engine make. Passing the same seeded source reproduces a match.
func WithRandomSource(rng RandomSource) Option {
	return func(s *Simulator) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithEngine replaces the default engine. The engine keeps its own source.
func WithEngine(e *Engine) Option {
	return func(s *Simulator) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLogger sets the logger used for match lifecycle messages.
func WithLogger(l logger.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEventObserver registers fn to receive every event as it is appended to
// the log, including chained and clock events.
func WithEventObserver(fn func(MatchEvent)) Option {
	return func(s *Simulator) {
		s.observer = fn
	}
}
