// Package timeline schedules moments on a synthetic calendar and hands them
// back as the clock is advanced one day at a time.
package timeline

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/matchday/pkg/logger"
)

// Callback runs when a moment is fired.
type Callback func(ctx context.Context, m *Moment) error

// Moment is a unit of deferred work. Identity is ID; callers keep IDs unique.
type Moment struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Resolved    bool      `json:"resolved"`
	Callback    Callback  `json:"-"`
	Payload     any       `json:"payload,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// HasTag reports whether tag is attached to the moment.
func (m *Moment) HasTag(tag string) bool {
	return slices.Contains(m.Tags, tag)
}

// FireReport summarizes a FireMoments call.
type FireReport struct {
	Fired  int `json:"fired"`
	Failed int `json:"failed"`
}

// AdvanceReport describes one advance-fire-resolve cycle driven by a caller.
type AdvanceReport struct {
	Date     time.Time `json:"date"`
	Moments  []*Moment `json:"moments"`
	Fired    int       `json:"fired"`
	Failed   int       `json:"failed"`
	Resolved int       `json:"resolved"`
}

// Timeline is a date-keyed multimap of moments plus a movable current date.
// Buckets keep insertion order; the bucket list keeps first-seen order.
type Timeline struct {
	mu      sync.RWMutex
	current time.Time
	keys    []string
	buckets map[string][]*Moment
	log     logger.Logger
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithLogger sets the logger used to report failing callbacks.
func WithLogger(l logger.Logger) Option {
	return func(t *Timeline) {
		if l != nil {
			t.log = l
		}
	}
}

// New returns a timeline whose current date is start, or now when start is zero.
func New(start time.Time, opts ...Option) *Timeline {
	if start.IsZero() {
		start = time.Now()
	}
	t := &Timeline{
		current: start,
		buckets: make(map[string][]*Moment),
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// dateKey buckets by calendar day in the date's own location; time of day is ignored.
func dateKey(d time.Time) string {
	y, m, day := d.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, m, day)
}

// RegisterMoment appends m to the bucket for its date.
func (t *Timeline) RegisterMoment(m *Moment) {
	if m == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	key := dateKey(m.Date)
	if _, ok := t.buckets[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.buckets[key] = append(t.buckets[key], m)
}

// RemoveMoment deletes the first moment with id. An emptied bucket is dropped.
func (t *Timeline) RemoveMoment(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ki, key := range t.keys {
		bucket := t.buckets[key]
		i := slices.IndexFunc(bucket, func(m *Moment) bool { return m.ID == id })
		if i < 0 {
			continue
		}
		bucket = slices.Delete(bucket, i, i+1)
		if len(bucket) == 0 {
			delete(t.buckets, key)
			t.keys = slices.Delete(t.keys, ki, ki+1)
		} else {
			t.buckets[key] = bucket
		}
		return true
	}
	return false
}

// ResolveMoment marks the first moment with id as resolved.
func (t *Timeline) ResolveMoment(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m := t.find(id); m != nil {
		m.Resolved = true
		return true
	}
	return false
}

// ResolveMoments resolves each moment by id and returns how many were found.
func (t *Timeline) ResolveMoments(moments []*Moment) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, m := range moments {
		if m == nil {
			continue
		}
		if found := t.find(m.ID); found != nil {
			found.Resolved = true
			n++
		}
	}
	return n
}

// Moment returns a copy of the moment with id.
func (t *Timeline) Moment(id string) (*Moment, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m := t.find(id)
	if m == nil {
		return nil, false
	}
	return m.clone(), true
}

// clone copies m so readers never share the stored moment. Callers hold t.mu.
func (m *Moment) clone() *Moment {
	c := *m
	c.Tags = slices.Clone(m.Tags)
	return &c
}

func cloneAll(out, moments []*Moment) []*Moment {
	for _, m := range moments {
		out = append(out, m.clone())
	}
	return out
}

func (t *Timeline) find(id string) *Moment {
	for _, key := range t.keys {
		for _, m := range t.buckets[key] {
			if m.ID == id {
				return m
			}
		}
	}
	return nil
}

// MomentsForDate returns every moment on d's calendar day in registration order.
func (t *Timeline) MomentsForDate(d time.Time) []*Moment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return cloneAll(nil, t.buckets[dateKey(d)])
}

// UnresolvedMomentsForDate is MomentsForDate without resolved moments.
func (t *Timeline) UnresolvedMomentsForDate(d time.Time) []*Moment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return unresolved(t.buckets[dateKey(d)])
}

// MomentsByTag returns moments carrying tag, bucket by bucket.
func (t *Timeline) MomentsByTag(tag string) []*Moment {
	return t.collect(func(m *Moment) bool { return m.HasTag(tag) })
}

// UnresolvedMoments returns every pending moment, bucket by bucket.
func (t *Timeline) UnresolvedMoments() []*Moment {
	return t.collect(func(m *Moment) bool { return !m.Resolved })
}

// AllMoments returns every moment, bucket by bucket.
func (t *Timeline) AllMoments() []*Moment {
	return t.collect(func(*Moment) bool { return true })
}

// Len returns the number of registered moments.
func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, bucket := range t.buckets {
		n += len(bucket)
	}
	return n
}

func (t *Timeline) collect(keep func(*Moment) bool) []*Moment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*Moment
	for _, key := range t.keys {
		for _, m := range t.buckets[key] {
			if keep(m) {
				out = append(out, m.clone())
			}
		}
	}
	return out
}

func unresolved(bucket []*Moment) []*Moment {
	var out []*Moment
	for _, m := range bucket {
		if !m.Resolved {
			out = append(out, m.clone())
		}
	}
	return out
}

// CurrentDate returns the timeline's clock.
func (t *Timeline) CurrentDate() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// AdvanceTime moves the clock forward one day at a time and returns every
// moment on each day reached, resolved or not, as copies. Nothing is fired or
// resolved.
func (t *Timeline) AdvanceTime(days int) []*Moment {
	t.mu.Lock()
	defer t.mu.Unlock()
	var triggered []*Moment
	for range days {
		t.current = t.current.AddDate(0, 0, 1)
		triggered = cloneAll(triggered, t.buckets[dateKey(t.current)])
	}
	return triggered
}

// FireMoments runs each callback in order. A failing or panicking callback is
// logged and counted; the remaining callbacks still run.
func (t *Timeline) FireMoments(ctx context.Context, moments []*Moment) FireReport {
	var report FireReport
	for _, m := range moments {
		if m == nil {
			continue
		}
		if m.Callback == nil {
			t.log.Warn(ctx, "moment has no callback; skipped",
				logger.String("moment_id", m.ID))
			continue
		}
		report.Fired++
		if err := t.fire(ctx, m); err != nil {
			report.Failed++
			description := m.Description
			if description == "" {
				description = "No description"
			}
			t.log.Error(ctx, "moment callback failed",
				logger.String("moment_id", m.ID),
				logger.String("description", description),
				logger.Error(err))
		}
	}
	return report
}

func (t *Timeline) fire(ctx context.Context, m *Moment) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCallbackPanic, r)
		}
	}()
	return m.Callback(ctx, m)
}

// Filter narrows a Query. Zero fields match everything.
type Filter struct {
	Tag            string
	Date           time.Time
	UnresolvedOnly bool
}

// Query returns the moments matching f in timeline order.
func (t *Timeline) Query(f Filter) []*Moment {
	var dayKey string
	if !f.Date.IsZero() {
		dayKey = dateKey(f.Date)
	}
	return t.collect(func(m *Moment) bool {
		if f.UnresolvedOnly && m.Resolved {
			return false
		}
		if f.Tag != "" && !m.HasTag(f.Tag) {
			return false
		}
		return dayKey == "" || dateKey(m.Date) == dayKey
	})
}

// Info is a point-in-time summary of a timeline.
type Info struct {
	CurrentDate time.Time `json:"current_date"`
	Moments     int       `json:"moments"`
	Unresolved  int       `json:"unresolved"`
}

// Info reports the clock and moment counts.
func (t *Timeline) Info() Info {
	return Info{
		CurrentDate: t.CurrentDate(),
		Moments:     t.Len(),
		Unresolved:  len(t.UnresolvedMoments()),
	}
}
