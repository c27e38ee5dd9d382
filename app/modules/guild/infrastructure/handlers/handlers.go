package guildhandlers

import (
	"errors"
	"log/slog"
	"strconv"

	guildservice "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/application"
	guildevents "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/domain/events"
	guildqueue "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/infrastructure/queue"
	"github.com/Black-And-White-Club/guild-sidecar/pkg/observability/guildmetrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RealmFilter restricts which realm's events reach the hooks.
type RealmFilter struct {
	Enabled bool
	RealmID uint32
}

// Accepts reports whether an event from realmID should be handled.
func (f RealmFilter) Accepts(realmID uint32) bool {
	return !f.Enabled || f.RealmID == realmID
}

// GuildHandlers implements the Handlers interface for guild member events.
type GuildHandlers struct {
	service guildservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics guildmetrics.GuildHookMetrics
	realm   RealmFilter
}

// NewGuildHandlers creates a new GuildHandlers instance.
func NewGuildHandlers(
	service guildservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics guildmetrics.GuildHookMetrics,
	realm RealmFilter,
) *GuildHandlers {
	return &GuildHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		metrics: metrics,
		realm:   realm,
	}
}

// memberEvent is what every member payload boils down to before it reaches a hook.
type memberEvent struct {
	realmID    uint32
	guildID    uint64
	playerGUID uint64
}

// handleMemberEvent decodes msg as an envelope of eventType and schedules the
// matching hook call. Undecodable and foreign-realm messages are acked and dropped.
func handleMemberEvent[T any](
	h *GuildHandlers,
	msg *message.Message,
	eventType guildevents.EventType,
	extract func(*T) memberEvent,
) error {
	kind, err := eventType.HookKind()
	if err != nil {
		return err
	}
	hook := kind.String()

	ctx, span := h.tracer.Start(msg.Context(), "guild.handle."+hook, trace.WithAttributes(
		attribute.String("message_uuid", msg.UUID),
		attribute.String("correlation_id", middleware.MessageCorrelationID(msg)),
	))
	defer span.End()

	var payload T
	if err := guildevents.UnmarshalAs(msg.Payload, eventType, &payload); err != nil {
		h.logger.ErrorContext(ctx, "can't read guild event payload",
			"hook", hook,
			"message_uuid", msg.UUID,
			"error", err,
		)
		h.metrics.RecordEventDropped(ctx, hook, "malformed")
		span.RecordError(err)
		return nil
	}

	ev := extract(&payload)
	span.SetAttributes(
		attribute.String("guild_id", strconv.FormatUint(ev.guildID, 10)),
		attribute.String("player_guid", strconv.FormatUint(ev.playerGUID, 10)),
	)

	if !h.realm.Accepts(ev.realmID) {
		h.logger.DebugContext(ctx, "skipping guild event from another realm",
			"hook", hook,
			"realm_id", ev.realmID,
		)
		h.metrics.RecordEventDropped(ctx, hook, "foreign_realm")
		return nil
	}

	if err := h.service.EnqueueMemberEvent(ctx, kind, ev.guildID, ev.playerGUID); err != nil {
		if errors.Is(err, guildqueue.ErrClosed) {
			h.logger.WarnContext(ctx, "dropping guild event, hooks queue closed",
				"hook", hook,
				"guild_id", ev.guildID,
				"player_guid", ev.playerGUID,
			)
			return nil
		}
		span.RecordError(err)
		return err
	}

	h.logger.DebugContext(ctx, "guild event queued",
		"hook", hook,
		"guild_id", ev.guildID,
		"player_guid", ev.playerGUID,
	)
	return nil
}
