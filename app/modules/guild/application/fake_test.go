package guildservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	guildqueue "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/infrastructure/queue"
)

// ------------------------
// Fake Metrics
// ------------------------

// FakeMetrics records every metric call as a string.
type FakeMetrics struct {
	mu    sync.Mutex
	trace []string
	depth int
}

func (f *FakeMetrics) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of metric calls.
func (f *FakeMetrics) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeMetrics) Depth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.depth
}

func (f *FakeMetrics) RecordEventReceived(_ context.Context, hook string) {
	f.record("received:" + hook)
}

func (f *FakeMetrics) RecordEventDropped(_ context.Context, hook, reason string) {
	f.record(fmt.Sprintf("dropped:%s:%s", hook, reason))
}

func (f *FakeMetrics) RecordDispatch(_ context.Context, hook, status string, _ time.Duration) {
	f.record(fmt.Sprintf("dispatch:%s:%s", hook, status))
}

func (f *FakeMetrics) SetQueueDepth(_ context.Context, depth int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.depth = depth
}

// ------------------------
// Fake Queue
// ------------------------

// FakeQueue lets tests fail Push.
type FakeQueue struct {
	guildqueue.Queue
	PushFunc func(ctx context.Context, job guildqueue.Job) error
}

func (f *FakeQueue) Push(ctx context.Context, job guildqueue.Job) error {
	if f.PushFunc != nil {
		return f.PushFunc(ctx, job)
	}
	return f.Queue.Push(ctx, job)
}
