// Package eventbus is a small in-process publish/subscribe hub.
package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// Topics published by the service.
const (
	TopicMatchEvent       = "match.event"
	TopicMatchFinished    = "match.finished"
	TopicStandingsUpdated = "standings.updated"
	TopicMomentFired      = "timeline.moment_fired"
)

// Listener receives the payload of an emitted topic.
type Listener func(ctx context.Context, data any) error

// Subscription identifies one registered listener.
type Subscription struct {
	Topic string
	id    uint64
}

type entry struct {
	id uint64
	fn Listener
}

// Bus fans emitted payloads out to listeners in registration order.
// Listener errors and panics are logged and never reach the emitter.
type Bus struct {
	mu        sync.RWMutex
	next      uint64
	listeners map[string][]entry
	log       logger.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used to report failing listeners.
func WithLogger(l logger.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// New returns an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		listeners: make(map[string][]entry),
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// On registers fn for topic. The same function may be registered twice and
// is then called twice.
func (b *Bus) On(topic string, fn Listener) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.listeners[topic] = append(b.listeners[topic], entry{id: b.next, fn: fn})
	return Subscription{Topic: topic, id: b.next}
}

// Off removes the listener behind sub. It reports whether one was removed.
func (b *Bus) Off(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.listeners[sub.Topic]
	for i, e := range list {
		if e.id != sub.id {
			continue
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(b.listeners, sub.Topic)
		} else {
			b.listeners[sub.Topic] = list
		}
		return true
	}
	return false
}

// ListenerCount returns how many listeners topic has.
func (b *Bus) ListenerCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[topic])
}

// Emit calls every listener of topic synchronously and returns the number
// that failed. Listeners may subscribe or unsubscribe while being called;
// the change applies to the next Emit.
func (b *Bus) Emit(ctx context.Context, topic string, data any) int {
	b.mu.RLock()
	list := append([]entry(nil), b.listeners[topic]...)
	b.mu.RUnlock()

	metrics.RecordBusEmit(topic)
	failed := 0
	for _, e := range list {
		if err := call(ctx, e.fn, data); err != nil {
			failed++
			metrics.RecordBusListenerError(topic)
			b.log.Error(ctx, "event listener failed",
				logger.String("topic", topic),
				logger.Error(err),
			)
		}
	}
	return failed
}

func call(ctx context.Context, fn Listener, data any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanic, r)
		}
	}()
	return fn(ctx, data)
}
