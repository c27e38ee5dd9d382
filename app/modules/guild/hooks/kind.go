package guildhooks

import "fmt"

// Kind identifies a guild membership event a hook can be bound to.
type Kind int

const (
	// MemberAdded fires when a player joins a guild.
	MemberAdded Kind = iota
	// MemberLeft fires when a player leaves a guild on their own.
	MemberLeft
	// MemberRemoved fires when a player is kicked from a guild.
	MemberRemoved

	kindCount
)

// Kinds returns every known hook kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	switch k {
	case MemberAdded:
		return "GuildMemberAdded"
	case MemberLeft:
		return "GuildMemberLeft"
	case MemberRemoved:
		return "GuildMemberRemoved"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Status is the outcome of a single Dispatch call.
type Status int

const (
	// StatusOK means a hook was bound and returned normally.
	StatusOK Status = iota
	// StatusNoHook means nothing was bound for the kind; nothing was called.
	StatusNoHook
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoHook:
		return "no_hook"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}
