package guildrouter

import (
	"context"
	"fmt"
	"log/slog"

	guildevents "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/domain/events"
	guildhandlers "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/infrastructure/handlers"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// GuildRouter handles routing for guild member events.
type GuildRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
}

// NewGuildRouter creates a new GuildRouter.
func NewGuildRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
) *GuildRouter {
	return &GuildRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
	}
}

// Configure sets up the router with the guild member handlers.
func (r *GuildRouter) Configure(routerCtx context.Context, handlers guildhandlers.Handlers) error {
	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	if err := r.RegisterHandlers(routerCtx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// RegisterHandlers subscribes each guild member subject to its handler.
func (r *GuildRouter) RegisterHandlers(ctx context.Context, handlers guildhandlers.Handlers) error {
	handlersToRegister := map[string]message.NoPublishHandlerFunc{
		guildevents.GuildMemberAddedV1:  handlers.HandleGuildMemberAdded,
		guildevents.GuildMemberLeftV1:   handlers.HandleGuildMemberLeft,
		guildevents.GuildMemberKickedV1: handlers.HandleGuildMemberKicked,
	}

	for topic, handlerFunc := range handlersToRegister {
		handlerName := "guild." + topic
		r.Router.AddNoPublisherHandler(
			handlerName,
			topic,
			r.subscriber,
			handlerFunc,
		)
		r.logger.InfoContext(ctx, "Registered guild handler", "handler", handlerName, "topic", topic)
	}

	return nil
}

// Close stops the router.
func (r *GuildRouter) Close() error {
	return r.Router.Close()
}
