package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/matchday/internal/domain/model"
)

func job(id string) Job {
	return model.MatchJob{MatchID: id, HomeTeam: model.Team{Name: "Brann"}, AwayTeam: model.Team{Name: "Molde"}}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if err := q.Enqueue(ctx, job("m1")); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	dctx, cancel := context.WithCancel(ctx)
	defer cancel()
	got := <-q.Dequeue(dctx)
	if got.MatchID != "m1" {
		t.Errorf("expected m1, got %v", got.MatchID)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"m1", "m2"} {
		if err := q.Enqueue(ctx, job(id)); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}
	if err := q.Enqueue(ctx, job("m3")); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, job("m1")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInMemoryQueue_CloseDrains(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	_ = q.Enqueue(ctx, job("m1"))
	_ = q.Enqueue(ctx, job("m2"))
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if err := q.Enqueue(ctx, job("m3")); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}

	var ids []string
	for j := range q.Dequeue(ctx) {
		ids = append(ids, j.MatchID)
	}
	if fmt.Sprint(ids) != "[m1 m2]" {
		t.Errorf("expected queued jobs to drain in order, got %v", ids)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const producers, perProducer = 10, 50
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Enqueue(ctx, job(fmt.Sprintf("m-%d-%d", p, i))); err != nil {
					t.Errorf("enqueue: %v", err)
				}
			}
		}(p)
	}
	wg.Wait()

	jobs := q.Dequeue(ctx)
	seen := make(map[string]bool)
	timeout := time.After(5 * time.Second)
	for len(seen) < producers*perProducer {
		select {
		case j := <-jobs:
			seen[j.MatchID] = true
		case <-timeout:
			t.Fatalf("timed out after %d jobs", len(seen))
		}
	}
}
