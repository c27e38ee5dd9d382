package guildservice

import (
	"context"

	guildhooks "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/hooks"
)

// Service moves guild membership events from the event bus to the bound hooks.
type Service interface {
	// EnqueueMemberEvent schedules a hook call for kind. It does not run the hook.
	EnqueueMemberEvent(ctx context.Context, kind guildhooks.Kind, guildID, playerGUID uint64) error
	// ProcessEvents runs every scheduled hook call on the calling goroutine and
	// returns how many ran.
	ProcessEvents(ctx context.Context) int
}
