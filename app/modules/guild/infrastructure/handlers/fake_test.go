package guildhandlers

import (
	"context"

	guildhooks "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/hooks"
)

// ------------------------
// Fake Hook Service
// ------------------------

type enqueued struct {
	Kind       guildhooks.Kind
	GuildID    uint64
	PlayerGUID uint64
}

// FakeHookService provides a programmable stub for the guildservice.Service interface.
type FakeHookService struct {
	trace    []string
	enqueued []enqueued

	EnqueueMemberEventFunc func(ctx context.Context, kind guildhooks.Kind, guildID, playerGUID uint64) error
	ProcessEventsFunc      func(ctx context.Context) int
}

// NewFakeHookService initializes a new FakeHookService.
func NewFakeHookService() *FakeHookService {
	return &FakeHookService{
		trace: []string{},
	}
}

func (f *FakeHookService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeHookService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Service Interface Implementation ---

func (f *FakeHookService) EnqueueMemberEvent(ctx context.Context, kind guildhooks.Kind, guildID, playerGUID uint64) error {
	f.record("EnqueueMemberEvent")
	f.enqueued = append(f.enqueued, enqueued{Kind: kind, GuildID: guildID, PlayerGUID: playerGUID})
	if f.EnqueueMemberEventFunc != nil {
		return f.EnqueueMemberEventFunc(ctx, kind, guildID, playerGUID)
	}
	return nil
}

func (f *FakeHookService) ProcessEvents(ctx context.Context) int {
	f.record("ProcessEvents")
	if f.ProcessEventsFunc != nil {
		return f.ProcessEventsFunc(ctx)
	}
	return 0
}
