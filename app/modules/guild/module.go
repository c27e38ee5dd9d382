package guild

import (
	"context"
	"fmt"
	"sync"
	"time"

	guildservice "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/application"
	guildhooks "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/hooks"
	guildhandlers "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/infrastructure/handlers"
	guildqueue "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/infrastructure/queue"
	guildrouter "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/infrastructure/router"
	"github.com/Black-And-White-Club/guild-sidecar/config"
	"github.com/Black-And-White-Club/guild-sidecar/pkg/observability"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Module represents the guild hooks module.
type Module struct {
	Hooks         *guildhooks.Registry
	HookService   *guildservice.HookService
	GuildRouter   *guildrouter.GuildRouter
	queue         guildqueue.Queue
	config        *config.Config
	observability *observability.Observability

	// done is closed by Close; Run exits on it as well as on its context.
	done      chan struct{}
	closeOnce sync.Once
}

// NewGuildModule creates a new instance of the Guild module and registers its
// handlers on router. Hooks are bound on the returned Module's Hooks registry.
func NewGuildModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	subscriber message.Subscriber,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger
	metrics := obs.GuildMetrics
	tracer := obs.Tracer

	logger.InfoContext(ctx, "guild.NewGuildModule called")

	registry := guildhooks.NewRegistry()
	queue := guildqueue.NewFIFOQueue(cfg.Guild.QueueSize)

	hookService := guildservice.NewHookService(registry, queue, logger, metrics, tracer, cfg.Guild.NoHookLogInterval)

	handlers := guildhandlers.NewGuildHandlers(hookService, logger, tracer, metrics, guildhandlers.RealmFilter{
		Enabled: cfg.Guild.FilterRealm,
		RealmID: cfg.Guild.RealmID,
	})

	guildRouter := guildrouter.NewGuildRouter(logger, router, subscriber)
	if err := guildRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure guild router: %w", err)
	}

	return &Module{
		Hooks:         registry,
		HookService:   hookService,
		GuildRouter:   guildRouter,
		queue:         queue,
		config:        cfg,
		observability: obs,
		done:          make(chan struct{}),
	}, nil
}

// ProcessEvents runs every pending hook call on the calling goroutine. Game
// servers that own their update loop call this once per tick instead of Run.
func (m *Module) ProcessEvents(ctx context.Context) int {
	return m.HookService.ProcessEvents(ctx)
}

// Run drains the hook queue every guild.process_interval until ctx is canceled
// or Close is called. Before returning it closes the queue and runs every call
// that was accepted.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting guild module")

	if wg != nil {
		defer wg.Done()
	}

	interval := m.config.Guild.ProcessInterval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.flush(context.WithoutCancel(ctx))
			return
		case <-m.done:
			m.flush(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			m.ProcessEvents(ctx)
		}
	}
}

// flush stops intake and runs what is left. Queue.Close waits for in-flight
// pushes, so nothing is accepted after the final drain.
func (m *Module) flush(ctx context.Context) {
	m.queue.Close()
	n := m.ProcessEvents(ctx)
	m.observability.Logger.InfoContext(ctx, "Guild module goroutine stopped", "flushed", n)
}

// Close stops the guild module and cleans up resources.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping guild module")

	var routerErr error
	if m.GuildRouter != nil {
		if err := m.GuildRouter.Close(); err != nil {
			logger.Error("Error closing GuildRouter from module", "error", err)
			routerErr = fmt.Errorf("error closing GuildRouter: %w", err)
		}
	}

	// No new events after this; Run flushes what is queued.
	m.queue.Close()
	m.closeOnce.Do(func() { close(m.done) })

	if routerErr != nil {
		return routerErr
	}

	logger.Info("Guild module stopped")
	return nil
}
