package guildqueue

import (
	"context"
	"errors"
	"sync"
)

// DefaultSize is the number of pending jobs a queue buffers before Push blocks.
const DefaultSize = 1000

// ErrClosed is returned by Push after Close.
var ErrClosed = errors.New("handlers queue closed")

// Job is a deferred hook call.
type Job interface {
	Run(ctx context.Context)
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context)

// Run calls f(ctx).
func (f JobFunc) Run(ctx context.Context) { f(ctx) }

// Queue is a bounded FIFO handed from event consumers to the goroutine that
// drains it.
type Queue interface {
	Push(ctx context.Context, job Job) error
	Pop() Job
	Len() int
	Close()
}

type fifoQueue struct {
	jobs chan Job

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	// pushing counts Push calls that passed the closed check.
	pushing sync.WaitGroup
}

// NewFIFOQueue creates a queue holding up to size jobs. A size <= 0 uses DefaultSize.
func NewFIFOQueue(size int) Queue {
	if size <= 0 {
		size = DefaultSize
	}
	return &fifoQueue{
		jobs: make(chan Job, size),
		done: make(chan struct{}),
	}
}

// Push appends job, blocking while the queue is full. Nil jobs are dropped.
func (q *fifoQueue) Push(ctx context.Context, job Job) error {
	if job == nil {
		return nil
	}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrClosed
	}
	q.pushing.Add(1)
	q.mu.RUnlock()
	defer q.pushing.Done()

	select {
	case q.jobs <- job:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop returns the oldest job, or nil when the queue is empty. It never blocks.
func (q *fifoQueue) Pop() Job {
	select {
	case job := <-q.jobs:
		return job
	default:
		return nil
	}
}

func (q *fifoQueue) Len() int {
	return len(q.jobs)
}

// Close rejects further pushes and wakes blocked ones. Once it returns no job
// can be added, so a final drain sees everything that was accepted. Jobs
// already queued can still be popped.
func (q *fifoQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.done)
	}
	q.mu.Unlock()

	q.pushing.Wait()
}
