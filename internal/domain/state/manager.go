// Package state holds a value behind change notification, snapshot history
// and optional persistence.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mitchellh/copystructure"

	"github.com/okian/matchday/pkg/ident"
	"github.com/okian/matchday/pkg/logger"
)

const (
	defaultKey         = "state-manager"
	snapshotIDLength   = 9
	persistenceTimeout = 5 * time.Second
)

// Store keeps persisted state blobs by key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Listener observes a change from prev to next.
type Listener[T any] func(next, prev T)

// Snapshot is one recorded state.
type Snapshot[T any] struct {
	ID        string    `json:"id"`
	State     T         `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

type persisted[T any] struct {
	State     T             `json:"state"`
	History   []Snapshot[T] `json:"history,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Manager owns a value of type T. Every read returns a deep copy and every
// write stores one, so callers never share memory with the manager.
type Manager[T any] struct {
	opts options

	mu        sync.Mutex
	state     T
	history   []Snapshot[T]
	listeners map[uint64]Listener[T]
	nextSub   uint64

	// notifyMu keeps listener calls in change order.
	notifyMu sync.Mutex

	debounceMu  sync.Mutex
	timer       *time.Timer
	generation  uint64
	pendingPrev T
}

// New returns a manager holding a copy of initial. With persistence enabled
// a previously saved state replaces initial.
func New[T any](initial T, opts ...Option) *Manager[T] {
	o := options{
		maxHistory: DefaultMaxHistory,
		key:        defaultKey,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	m := &Manager[T]{
		opts:      o,
		listeners: make(map[uint64]Listener[T]),
	}
	m.state = m.clone(initial)
	if o.history {
		m.record(m.state)
	}
	if o.store != nil {
		m.load()
	}
	return m
}

// State returns a copy of the current value.
func (m *Manager[T]) State() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clone(m.state)
}

// Update applies fn to a copy of the current value and stores the result.
func (m *Manager[T]) Update(fn func(*T)) {
	m.mu.Lock()
	prev := m.clone(m.state)
	next := m.clone(m.state)
	m.mu.Unlock()

	fn(&next)
	m.set(next, prev, true)
}

// Set replaces the current value.
func (m *Manager[T]) Set(v T) {
	m.mu.Lock()
	prev := m.clone(m.state)
	m.mu.Unlock()
	m.set(v, prev, true)
}

// Subscribe registers l and returns a function that removes it.
func (m *Manager[T]) Subscribe(l Listener[T]) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSub++
	id := m.nextSub
	m.listeners[id] = l
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Reset returns to the oldest recorded snapshot, or re-stores the current
// value when there is no history.
func (m *Manager[T]) Reset() {
	m.mu.Lock()
	prev := m.clone(m.state)
	target := m.state
	if len(m.history) > 0 {
		target = m.history[0].State
	}
	target = m.clone(target)
	m.mu.Unlock()
	m.set(target, prev, true)
}

// History returns copies of the recorded snapshots, oldest first.
func (m *Manager[T]) History() []Snapshot[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Snapshot[T], len(m.history))
	for i, s := range m.history {
		out[i] = Snapshot[T]{ID: s.ID, State: m.clone(s.State), Timestamp: s.Timestamp}
	}
	return out
}

// Restore makes the snapshot with id current. It reports whether the
// snapshot exists.
func (m *Manager[T]) Restore(id string) bool {
	m.mu.Lock()
	var (
		target T
		found  bool
	)
	for _, s := range m.history {
		if s.ID == id {
			target, found = m.clone(s.State), true
			break
		}
	}
	prev := m.clone(m.state)
	m.mu.Unlock()
	if !found {
		return false
	}
	m.set(target, prev, true)
	return true
}

// ClearHistory drops every snapshot. With history enabled the current value
// becomes the only entry.
func (m *Manager[T]) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	if m.opts.history {
		m.record(m.state)
	}
}

// Undo discards the newest snapshot and makes the one before it current.
// It needs at least two snapshots.
func (m *Manager[T]) Undo() bool {
	m.mu.Lock()
	if len(m.history) < 2 {
		m.mu.Unlock()
		return false
	}
	m.history = m.history[:len(m.history)-1]
	target := m.clone(m.history[len(m.history)-1].State)
	prev := m.clone(m.state)
	m.mu.Unlock()

	m.set(target, prev, false)
	return true
}

// Snapshot returns the id of a snapshot of the current value. The snapshot
// is kept only when history is enabled.
func (m *Manager[T]) Snapshot() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.snapshot(m.state)
	if m.opts.history {
		m.push(s)
	}
	return s.ID
}

func (m *Manager[T]) set(next, prev T, recordHistory bool) {
	m.mu.Lock()
	m.state = m.clone(next)
	if m.opts.history && recordHistory {
		m.record(m.state)
	}
	m.mu.Unlock()

	if m.opts.store != nil {
		m.save()
	}
	m.notify(prev)
}

// record appends a snapshot of v. Callers hold mu.
func (m *Manager[T]) record(v T) {
	m.push(m.snapshot(v))
}

func (m *Manager[T]) snapshot(v T) Snapshot[T] {
	return Snapshot[T]{
		ID:        "snapshot-" + ident.ShortID(snapshotIDLength),
		State:     m.clone(v),
		Timestamp: time.Now(),
	}
}

func (m *Manager[T]) push(s Snapshot[T]) {
	m.history = append(m.history, s)
	if over := len(m.history) - m.opts.maxHistory; over > 0 {
		m.history = append([]Snapshot[T](nil), m.history[over:]...)
	}
}

func (m *Manager[T]) notify(prev T) {
	if m.opts.debounce <= 0 {
		m.deliver(prev)
		return
	}
	m.debounceMu.Lock()
	defer m.debounceMu.Unlock()
	if m.timer == nil {
		m.pendingPrev = prev
	} else {
		m.timer.Stop()
	}
	m.generation++
	gen := m.generation
	m.timer = time.AfterFunc(m.opts.debounce, func() {
		m.debounceMu.Lock()
		if gen != m.generation {
			m.debounceMu.Unlock()
			return
		}
		p := m.pendingPrev
		m.timer = nil
		m.debounceMu.Unlock()
		m.deliver(p)
	})
}

func (m *Manager[T]) deliver(prev T) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	listeners := make([]Listener[T], 0, len(m.listeners))
	for id := uint64(1); id <= m.nextSub; id++ {
		if l, ok := m.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	current := m.state
	m.mu.Unlock()

	for _, l := range listeners {
		if err := m.call(l, m.clone(current), m.clone(prev)); err != nil {
			m.opts.log.Error(context.Background(), "state listener failed", logger.Error(err))
		}
	}
}

func (m *Manager[T]) call(l Listener[T], next, prev T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanic, r)
		}
	}()
	l(next, prev)
	return nil
}

func (m *Manager[T]) save() {
	m.mu.Lock()
	p := persisted[T]{State: m.state, Timestamp: time.Now()}
	if m.opts.history {
		p.History = m.history
	}
	blob, err := json.Marshal(p)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistenceTimeout)
	defer cancel()
	if err == nil {
		err = m.opts.store.Save(ctx, m.opts.key, blob)
	}
	if err != nil {
		m.opts.log.Warn(ctx, "failed to save state",
			logger.String("key", m.opts.key),
			logger.Error(err),
		)
	}
}

func (m *Manager[T]) load() {
	ctx, cancel := context.WithTimeout(context.Background(), persistenceTimeout)
	defer cancel()

	blob, ok, err := m.opts.store.Load(ctx, m.opts.key)
	if err != nil {
		m.opts.log.Warn(ctx, "failed to load state", logger.String("key", m.opts.key), logger.Error(err))
		return
	}
	if !ok {
		return
	}
	var p persisted[T]
	if err := json.Unmarshal(blob, &p); err != nil {
		m.opts.log.Warn(ctx, "failed to decode saved state", logger.String("key", m.opts.key), logger.Error(err))
		return
	}
	m.state = p.State
	if m.opts.history && len(p.History) > 0 {
		m.history = p.History
	}
}

// clone deep-copies v. Values copystructure cannot walk are returned as is.
func (m *Manager[T]) clone(v T) T {
	out, err := copystructure.Copy(v)
	if err != nil {
		m.opts.log.Warn(context.Background(), "deep copy failed", logger.Error(err))
		return v
	}
	c, ok := out.(T)
	if !ok {
		return v
	}
	return c
}
