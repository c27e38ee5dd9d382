//go:build integration

package guildhandlerintegrationtests

import (
	"context"
	"sync"
	"testing"
	"time"

	guildmodule "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild"
	guildhooks "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/hooks"
	"github.com/Black-And-White-Club/guild-sidecar/config"
	"github.com/Black-And-White-Club/guild-sidecar/pkg/eventbus"
	"github.com/Black-And-White-Club/guild-sidecar/pkg/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
)

type hookCall struct {
	Kind       guildhooks.Kind
	GuildID    uint64
	PlayerGUID uint64
}

type hookRecorder struct {
	mu    sync.Mutex
	calls []hookCall
}

func (r *hookRecorder) handler(kind guildhooks.Kind) guildhooks.Handler {
	return guildhooks.HandlerFunc(func(guildID, playerGUID uint64) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, hookCall{Kind: kind, GuildID: guildID, PlayerGUID: playerGUID})
	})
}

func (r *hookRecorder) Calls() []hookCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hookCall(nil), r.calls...)
}

// HandlerTestDeps is a running guild module subscribed to the test NATS server.
type HandlerTestDeps struct {
	GuildModule *guildmodule.Module
	Router      *message.Router
	Recorder    *hookRecorder
}

func SetupTestGuildHandler(t *testing.T, realmID uint32) HandlerTestDeps {
	t.Helper()

	ctx, cancel := context.WithCancel(testEnv.Ctx)
	t.Cleanup(cancel)

	cfg := config.Default()
	cfg.NATS.URL = testEnv.NatsURL
	cfg.Guild.RealmID = realmID
	cfg.Guild.FilterRealm = true

	obs, err := observability.Init(ctx, observability.Config{ServiceName: "guild-sidecar-integration"})
	require.NoError(t, err)

	// The router closes its subscribers on shutdown, so every test gets its own.
	bus, err := eventbus.NewEventBus(eventbus.Config{
		URL:        testEnv.NatsURL,
		ClientName: t.Name(),
	}, testEnv.Logger, watermill.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NopLogger{})
	require.NoError(t, err)

	module, err := guildmodule.NewGuildModule(ctx, &cfg, obs, bus.Subscriber, router)
	require.NoError(t, err)

	rec := &hookRecorder{}
	for _, kind := range guildhooks.Kinds() {
		module.Hooks.Set(kind, rec.handler(kind))
	}

	go func() {
		_ = router.Run(ctx)
	}()
	<-router.Running()
	// Core NATS subscriptions reach the server asynchronously.
	time.Sleep(200 * time.Millisecond)

	t.Cleanup(func() {
		_ = module.Close()
	})

	return HandlerTestDeps{GuildModule: module, Router: router, Recorder: rec}
}
