package guildhandlers

import (
	guildevents "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/domain/events"
	"github.com/ThreeDotsLabs/watermill/message"
)

// HandleGuildMemberAdded handles the guild.member.added event.
func (h *GuildHandlers) HandleGuildMemberAdded(msg *message.Message) error {
	return handleMemberEvent(h, msg, guildevents.MemberAdded, func(p *guildevents.MemberAddedPayload) memberEvent {
		return memberEvent{realmID: p.RealmID, guildID: p.GuildID, playerGUID: p.MemberGUID}
	})
}

// HandleGuildMemberLeft handles the guild.member.left event.
func (h *GuildHandlers) HandleGuildMemberLeft(msg *message.Message) error {
	return handleMemberEvent(h, msg, guildevents.MemberLeft, func(p *guildevents.MemberLeftPayload) memberEvent {
		return memberEvent{realmID: p.RealmID, guildID: p.GuildID, playerGUID: p.MemberGUID}
	})
}

// HandleGuildMemberKicked handles the guild.member.kicked event. The kicked
// member, not the kicker, is passed to the MemberRemoved hook.
func (h *GuildHandlers) HandleGuildMemberKicked(msg *message.Message) error {
	return handleMemberEvent(h, msg, guildevents.MemberKicked, func(p *guildevents.MemberKickedPayload) memberEvent {
		return memberEvent{realmID: p.RealmID, guildID: p.GuildID, playerGUID: p.MemberGUID}
	})
}
