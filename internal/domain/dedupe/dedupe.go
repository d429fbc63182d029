// Package dedupe tracks idempotency keys of match submissions.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// DefaultMaxSize is the number of keys remembered when no size is given.
const DefaultMaxSize = 10000

// Deduper remembers submission keys so a retried request is not simulated
// twice.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded and records it
	// if it was not. The check and the insert are atomic.
	SeenAndRecord(ctx context.Context, key string) bool

	// Forget drops key so a submission that could not be queued may be
	// retried under the same key.
	Forget(ctx context.Context, key string)

	Size() int64
}

// memoryDeduper evicts the oldest key once maxSize keys are held. A maxSize
// of zero or less keeps every key.
type memoryDeduper struct {
	mu      sync.Mutex
	maxSize int
	keys    map[string]*list.Element
	order   *list.List // front is newest
}

// New returns an in-memory deduper.
func New(opts ...Option) Deduper {
	d := &memoryDeduper{
		maxSize: DefaultMaxSize,
		keys:    make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *memoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.keys[key]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Back()
		d.order.Remove(oldest)
		delete(d.keys, oldest.Value.(string))
	}
	d.keys[key] = d.order.PushFront(key)
	return false
}

func (d *memoryDeduper) Forget(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.keys[key]; ok {
		d.order.Remove(el)
		delete(d.keys, key)
	}
}

func (d *memoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
