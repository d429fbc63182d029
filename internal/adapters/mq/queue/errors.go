package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)
