// Package dispatch marshals work from background goroutines onto a single
// consumer goroutine.
package dispatch

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// DefaultCapacity is enough for a burst of hotkey presses while the consumer
// is busy rendering.
const DefaultCapacity = 64

// Queue is a bounded multi-producer, single-consumer queue. Post never
// blocks; when the buffer is full the item is dropped and counted.
type Queue[T any] struct {
	name    string
	ch      chan T
	dropped atomic.Uint64
}

// NewQueue creates a queue. Capacities below 1 use DefaultCapacity.
func NewQueue[T any](name string, capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Queue[T]{
		name: name,
		ch:   make(chan T, capacity),
	}
}

// Post enqueues item without blocking and reports whether it was accepted.
func (q *Queue[T]) Post(item T) bool {
	select {
	case q.ch <- item:
		return true
	default:
		n := q.dropped.Add(1)
		slog.Warn("[WARN-DISPATCH] queue full, dropping message", "queue", q.name, "dropped", n)
		return false
	}
}

// Run calls handle for each item in FIFO order until ctx is cancelled.
// Only one Run may be active at a time. Items still buffered at
// cancellation stay in the queue; a later Run picks them up.
func (q *Queue[T]) Run(ctx context.Context, handle func(T)) {
	for {
		select {
		case <-ctx.Done():
			return
		case item := <-q.ch:
			handle(item)
		}
	}
}

// Drain handles every buffered item without waiting for more.
func (q *Queue[T]) Drain(handle func(T)) int {
	n := 0
	for {
		select {
		case item := <-q.ch:
			handle(item)
			n++
		default:
			return n
		}
	}
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Dropped returns how many items Post has rejected.
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}
