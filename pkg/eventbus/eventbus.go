package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// Config describes how the sidecar connects to NATS.
type Config struct {
	URL        string
	ClientName string
	// NKeySeed, when set, authenticates the connection with an nkey user seed.
	NKeySeed string
	// QueueGroup load-balances subjects across sidecars sharing the name. Empty
	// means every sidecar receives every event.
	QueueGroup       string
	SubscribersCount int
	ReconnectWait    time.Duration
	ConnectTimeout   time.Duration
}

// EventBus bundles the watermill NATS publisher and subscriber.
type EventBus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

var (
	_ message.Publisher  = (*EventBus)(nil)
	_ message.Subscriber = (*EventBus)(nil)
)

// NewEventBus connects a publisher and a subscriber to cfg.URL over core NATS.
func NewEventBus(cfg Config, logger *slog.Logger, wmLogger watermill.LoggerAdapter) (*EventBus, error) {
	options, err := connectionOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	marshaler := &RawJSONMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Marshaler:   marshaler,
			JetStream: nats.JetStreamConfig{
				Disabled: true,
			},
		},
		wmLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Watermill NATS publisher: %w", err)
	}

	// Parallel subscribers on one subject only make sense inside a queue group.
	subscribersCount := cfg.SubscribersCount
	if subscribersCount <= 0 || cfg.QueueGroup == "" {
		subscribersCount = 1
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              cfg.URL,
			QueueGroupPrefix: cfg.QueueGroup,
			SubscribersCount: subscribersCount,
			NatsOptions:      options,
			Unmarshaler:      marshaler,
			JetStream: nats.JetStreamConfig{
				Disabled: true,
			},
		},
		wmLogger,
	)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS subscriber: %w", err)
	}

	return &EventBus{
		Publisher:  publisher,
		Subscriber: subscriber,
	}, nil
}

// Publish publishes messages to topic.
func (b *EventBus) Publish(topic string, messages ...*message.Message) error {
	return b.Publisher.Publish(topic, messages...)
}

// Subscribe subscribes to topic.
func (b *EventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.Subscriber.Subscribe(ctx, topic)
}

// Close closes the subscriber and the publisher.
func (b *EventBus) Close() error {
	var errs []error
	if err := b.Subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close subscriber: %w", err))
	}
	if err := b.Publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
	}
	return errors.Join(errs...)
}

func connectionOptions(cfg Config, logger *slog.Logger) ([]nc.Option, error) {
	reconnectWait := cfg.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = time.Second
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	options := []nc.Option{
		nc.Name(cfg.ClientName),
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
		nc.Timeout(timeout),
		nc.ReconnectWait(reconnectWait),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("Error in subscription", "subject", s.Subject, "queue", s.Queue, "error", err)
			} else {
				logger.Error("Error in connection", "error", err)
			}
		}),
		nc.DisconnectErrHandler(func(_ *nc.Conn, err error) {
			logger.Warn("Disconnected from NATS", "error", err)
		}),
		nc.ReconnectHandler(func(conn *nc.Conn) {
			logger.Info("Reconnected to NATS", "url", conn.ConnectedUrl())
		}),
	}

	if cfg.NKeySeed != "" {
		opt, err := NKeyOption(cfg.NKeySeed)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}

	return options, nil
}
