// Package queue defines the contract for handing finalized match records to
// the archiver.
//
// The queue decouples the synchronous scoring path from archive writes: a
// match completes the moment its terminal rule fires, and persistence
// happens off that path.
package queue

import (
	"context"
	"sync"

	"github.com/okian/grapple/internal/domain/model"
	"github.com/okian/grapple/pkg/metrics"
)

const defaultCapacity = 1024

// Record is the payload type flowing through the queue.
type Record = model.MatchRecord

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a record to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, r Record) bool

	// Dequeue returns a channel that yields records as they arrive.
	// The channel closes when the queue closes.
	Dequeue(ctx context.Context) <-chan Record

	// Len returns the current number of queued records.
	Len(ctx context.Context) int

	// Close shuts down the queue; no further enqueues are accepted.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	records  chan Record
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates an in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.records = make(chan Record, q.capacity)

	metrics.UpdateArchiveQueueCapacity(q.capacity)
	metrics.UpdateArchiveQueueSize(0)
	metrics.UpdateArchiveQueueUtilization(0)
	return q
}

// Enqueue adds a record without blocking. A full or closed queue reports
// backpressure to the caller through the false return.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Record) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordArchiveEnqueueError()
		return false
	}

	select {
	case q.records <- r:
		metrics.RecordArchiveEnqueue()
		q.publishGauges()
		return true
	case <-ctx.Done():
		metrics.RecordArchiveEnqueueError()
		return false
	default:
		metrics.RecordArchiveEnqueueError()
		return false
	}
}

// Dequeue returns a channel that yields records until the queue closes or
// ctx is canceled.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Record {
	out := make(chan Record)
	go func() {
		defer close(out)
		for r := range q.records {
			select {
			case out <- r:
				metrics.RecordArchiveDequeue()
				q.publishGauges()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued records.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.records)
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.records)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// publishGauges refreshes the size and utilization gauges.
func (q *InMemoryQueue) publishGauges() {
	size := len(q.records)
	metrics.UpdateArchiveQueueSize(size)
	metrics.UpdateArchiveQueueUtilization(float64(size) / float64(q.capacity))
}
