package testutils

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/Black-And-White-Club/guild-sidecar/integration_tests/containers"
	"github.com/Black-And-White-Club/guild-sidecar/pkg/eventbus"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/testcontainers/testcontainers-go"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"
)

// TestEnvironment is a NATS container plus an event bus connected to it.
type TestEnvironment struct {
	Ctx       context.Context
	Cancel    context.CancelFunc
	NatsURL   string
	Container *tcnats.NATSContainer
	EventBus  *eventbus.EventBus
	Logger    *slog.Logger
}

// NewTestEnvironment starts NATS and connects an event bus to it.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(ctx)

	container, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus, err := eventbus.NewEventBus(eventbus.Config{
		URL:        natsURL,
		ClientName: "guild-sidecar-integration",
	}, logger, watermill.NopLogger{})
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		cancel()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	return &TestEnvironment{
		Ctx:       ctx,
		Cancel:    cancel,
		NatsURL:   natsURL,
		Container: container,
		EventBus:  bus,
		Logger:    logger,
	}, nil
}

// Cleanup closes the event bus and terminates the container.
func (env *TestEnvironment) Cleanup() {
	if err := env.EventBus.Close(); err != nil {
		log.Printf("Failed to close event bus: %v", err)
	}
	if err := testcontainers.TerminateContainer(env.Container); err != nil {
		log.Printf("Failed to terminate NATS container: %v", err)
	}
	env.Cancel()
}
