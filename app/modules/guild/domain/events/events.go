package guildevents

import (
	"fmt"

	guildhooks "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/hooks"
)

// EventType is the numeric event type carried in the envelope "t" field.
type EventType int

const (
	// InviteCreated is emitted when a guild invite is created. The sidecar does not
	// subscribe to it but keeps the numbering aligned with the guild service.
	InviteCreated EventType = iota + 1
	MemberAdded
	MemberLeft
	MemberKicked
)

// Subjects published by the guild service.
const (
	GuildMemberAddedV1  = "guild.member.added"
	GuildMemberLeftV1   = "guild.member.left"
	GuildMemberKickedV1 = "guild.member.kicked"
)

// Subject returns the NATS subject for t.
func (t EventType) Subject() (string, error) {
	switch t {
	case MemberAdded:
		return GuildMemberAddedV1, nil
	case MemberLeft:
		return GuildMemberLeftV1, nil
	case MemberKicked:
		return GuildMemberKickedV1, nil
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownEventType, int(t))
}

// HookKind returns the hook kind an event of type t is dispatched to.
// Kicked members are delivered to the MemberRemoved hook.
func (t EventType) HookKind() (guildhooks.Kind, error) {
	switch t {
	case MemberAdded:
		return guildhooks.MemberAdded, nil
	case MemberLeft:
		return guildhooks.MemberLeft, nil
	case MemberKicked:
		return guildhooks.MemberRemoved, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownEventType, int(t))
}

// EventTypeForKind is the inverse of HookKind.
func EventTypeForKind(kind guildhooks.Kind) (EventType, error) {
	switch kind {
	case guildhooks.MemberAdded:
		return MemberAdded, nil
	case guildhooks.MemberLeft:
		return MemberLeft, nil
	case guildhooks.MemberRemoved:
		return MemberKicked, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownEventType, kind)
}

// Payloads are encoded with Go field names as JSON keys, which is what the guild
// service produces.

// GenericGuildEvent is embedded in every member event.
type GenericGuildEvent struct {
	// ServiceID identifies the guild service instance that emitted the event.
	ServiceID string
	RealmID   uint32

	GuildID   uint64
	GuildName string

	MembersOnline []uint64
}

// MemberAddedPayload is carried on GuildMemberAddedV1.
type MemberAddedPayload struct {
	GenericGuildEvent

	MemberGUID uint64
	MemberName string
}

// MemberLeftPayload is carried on GuildMemberLeftV1.
type MemberLeftPayload struct {
	GenericGuildEvent

	MemberGUID uint64
	MemberName string
}

// MemberKickedPayload is carried on GuildMemberKickedV1.
type MemberKickedPayload struct {
	GenericGuildEvent

	MemberGUID uint64
	MemberName string

	KickerGUID uint64
	KickerName string
}
