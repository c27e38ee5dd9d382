package guildproducer

import (
	"fmt"

	guildevents "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/domain/events"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Producer publishes guild member events in the guild service wire format.
type Producer interface {
	MemberAdded(payload *guildevents.MemberAddedPayload) error
	MemberLeft(payload *guildevents.MemberLeftPayload) error
	MemberKicked(payload *guildevents.MemberKickedPayload) error
}

type producer struct {
	publisher message.Publisher
	version   string
}

// NewProducer creates a Producer that publishes through publisher, stamping
// every envelope with version.
func NewProducer(publisher message.Publisher, version string) Producer {
	return &producer{
		publisher: publisher,
		version:   version,
	}
}

func (p *producer) MemberAdded(payload *guildevents.MemberAddedPayload) error {
	return p.publish(guildevents.MemberAdded, payload)
}

func (p *producer) MemberLeft(payload *guildevents.MemberLeftPayload) error {
	return p.publish(guildevents.MemberLeft, payload)
}

func (p *producer) MemberKicked(payload *guildevents.MemberKickedPayload) error {
	return p.publish(guildevents.MemberKicked, payload)
}

func (p *producer) publish(t guildevents.EventType, payload any) error {
	subject, err := t.Subject()
	if err != nil {
		return err
	}

	data, err := guildevents.Marshal(p.version, t, payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(uuid.NewString(), data)
	if err := p.publisher.Publish(subject, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}
