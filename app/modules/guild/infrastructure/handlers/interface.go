package guildhandlers

import "github.com/ThreeDotsLabs/watermill/message"

// Handlers defines the contract for guild member event handlers.
type Handlers interface {
	HandleGuildMemberAdded(msg *message.Message) error
	HandleGuildMemberLeft(msg *message.Message) error
	HandleGuildMemberKicked(msg *message.Message) error
}
