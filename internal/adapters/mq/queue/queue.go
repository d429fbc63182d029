// Package queue buffers match simulation jobs between the API and the
// worker pool.
package queue

import (
	"context"
	"sync"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/metrics"
)

const defaultCapacity = 1024

// Job is the payload flowing through the queue.
type Job = model.MatchJob

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It fails fast with ErrQueueFull or ErrQueueClosed
	// instead of blocking the caller.
	Enqueue(ctx context.Context, job Job) error

	// Dequeue returns a channel that yields jobs until the queue is closed
	// and drained, or ctx ends.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the number of waiting jobs.
	Len(ctx context.Context) int

	// Close stops accepting jobs. Jobs already queued are still delivered.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.report()
	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, job Job) error { //nolint:gocritic // hugeParam: jobs travel by value
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return err
	}

	select {
	case q.jobs <- job:
		metrics.RecordQueueEnqueue()
		q.report()
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrQueueFull
	}
}

func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.jobs:
				if !ok {
					return
				}
				metrics.RecordQueueDequeue()
				q.report()
				select {
				case out <- job:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (q *InMemoryQueue) Len(context.Context) int {
	q.report()
	return len(q.jobs)
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) report() {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
