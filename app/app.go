package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/guild-sidecar/app/modules/guild"
	"github.com/Black-And-White-Club/guild-sidecar/config"
	"github.com/Black-And-White-Club/guild-sidecar/pkg/eventbus"
	"github.com/Black-And-White-Club/guild-sidecar/pkg/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// App wires the NATS event bus, the watermill router and the guild module.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	EventBus      *eventbus.EventBus
	Router        *message.Router
	GuildModule   *guild.Module

	metricsServer *http.Server
	wg            sync.WaitGroup
}

// NewApp connects to NATS and builds the guild module. Hooks should be bound
// on app.GuildModule.Hooks before Run is called.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger
	wmLogger := watermill.NewSlogLogger(logger)

	bus, err := eventbus.NewEventBus(eventbus.Config{
		URL:              cfg.NATS.URL,
		ClientName:       cfg.NATS.ClientName,
		NKeySeed:         cfg.NATS.NKeySeed,
		QueueGroup:       cfg.NATS.QueueGroup,
		SubscribersCount: cfg.NATS.SubscribersCount,
		ReconnectWait:    cfg.NATS.ReconnectWait,
	}, logger, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	guildModule, err := guild.NewGuildModule(ctx, cfg, obs, bus.Subscriber, router)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to initialize guild module: %w", err)
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		EventBus:      bus,
		Router:        router,
		GuildModule:   guildModule,
	}

	if addr := cfg.Observability.MetricsAddress; addr != "" {
		app.metricsServer = observability.NewServer(addr, obs.Registry, map[string]observability.HealthCheck{
			"router": app.routerHealth,
		})
	}

	logger.InfoContext(ctx, "Application initialized",
		"nats_url", cfg.NATS.URL,
		"realm_id", cfg.Guild.RealmID,
		"filter_realm", cfg.Guild.FilterRealm,
	)

	return app, nil
}

func (app *App) routerHealth() error {
	if !app.Router.IsRunning() {
		return fmt.Errorf("watermill router is not running")
	}
	return nil
}
