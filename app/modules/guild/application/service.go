package guildservice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	guildhooks "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/hooks"
	guildqueue "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/infrastructure/queue"
	"github.com/Black-And-White-Club/guild-sidecar/pkg/observability/guildmetrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// statusPanic labels dispatches whose hook panicked.
const statusPanic = "panic"

// DefaultNoHookLogInterval bounds how often "no bound hook" is logged per hook.
const DefaultNoHookLogInterval = time.Minute

// HookService implements the Service interface.
type HookService struct {
	registry *guildhooks.Registry
	queue    guildqueue.Queue
	logger   *slog.Logger
	metrics  guildmetrics.GuildHookMetrics
	tracer   trace.Tracer

	noHookLog map[guildhooks.Kind]*rate.Sometimes
}

// NewHookService creates a new HookService. A zero noHookLogInterval logs every
// missing hook.
func NewHookService(
	registry *guildhooks.Registry,
	queue guildqueue.Queue,
	logger *slog.Logger,
	metrics guildmetrics.GuildHookMetrics,
	tracer trace.Tracer,
	noHookLogInterval time.Duration,
) *HookService {
	noHookLog := make(map[guildhooks.Kind]*rate.Sometimes, len(guildhooks.Kinds()))
	for _, k := range guildhooks.Kinds() {
		if noHookLogInterval > 0 {
			noHookLog[k] = &rate.Sometimes{First: 1, Interval: noHookLogInterval}
		} else {
			noHookLog[k] = &rate.Sometimes{Every: 1}
		}
	}

	return &HookService{
		registry:  registry,
		queue:     queue,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		noHookLog: noHookLog,
	}
}

// EnqueueMemberEvent schedules a dispatch of kind with the given ids.
func (s *HookService) EnqueueMemberEvent(ctx context.Context, kind guildhooks.Kind, guildID, playerGUID uint64) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	s.metrics.RecordEventReceived(ctx, kind.String())

	job := guildqueue.JobFunc(func(ctx context.Context) {
		s.dispatch(ctx, kind, guildID, playerGUID)
	})
	if err := s.queue.Push(ctx, job); err != nil {
		s.metrics.RecordEventDropped(ctx, kind.String(), "enqueue_failed")
		return fmt.Errorf("%w: %s: %w", ErrEnqueueFailed, kind, err)
	}

	s.metrics.SetQueueDepth(ctx, s.queue.Len())
	return nil
}

// ProcessEvents drains the queue on the calling goroutine.
func (s *HookService) ProcessEvents(ctx context.Context) int {
	processed := 0
	for job := s.queue.Pop(); job != nil; job = s.queue.Pop() {
		job.Run(ctx)
		processed++
	}
	if processed > 0 {
		s.metrics.SetQueueDepth(ctx, s.queue.Len())
	}
	return processed
}

// dispatch runs one hook call with tracing, metrics and panic recovery.
func (s *HookService) dispatch(ctx context.Context, kind guildhooks.Kind, guildID, playerGUID uint64) {
	hook := kind.String()
	ctx, span := s.tracer.Start(ctx, "guild.hook."+hook, trace.WithAttributes(
		attribute.String("hook", hook),
		attribute.String("guild_id", strconv.FormatUint(guildID, 10)),
		attribute.String("player_guid", strconv.FormatUint(playerGUID, 10)),
	))
	defer span.End()

	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in %s hook: %v", hook, r)
			s.logger.ErrorContext(ctx, "Guild hook panicked",
				"hook", hook,
				"guild_id", guildID,
				"player_guid", playerGUID,
				"error", err,
			)
			s.metrics.RecordDispatch(ctx, hook, statusPanic, time.Since(startTime))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	status := s.registry.Dispatch(kind, guildID, playerGUID)
	s.metrics.RecordDispatch(ctx, hook, status.String(), time.Since(startTime))
	span.SetAttributes(attribute.String("status", status.String()))

	s.handleStatus(ctx, kind, status)
}

func (s *HookService) handleStatus(ctx context.Context, kind guildhooks.Kind, status guildhooks.Status) {
	switch status {
	case guildhooks.StatusOK:
	case guildhooks.StatusNoHook:
		s.noHookLog[kind].Do(func() {
			s.logger.WarnContext(ctx, "no bound hook", "hook", kind.String())
		})
	default:
		s.logger.ErrorContext(ctx, "unk status", "hook", kind.String(), "status", int(status))
	}
}
