// Package guildhooks holds the hooks an embedding game server binds to guild
// membership events.
//
// A Registry keeps at most one Handler per Kind. Binding a new handler replaces
// the previous one; binding nil unbinds. Dispatch calls the bound handler
// synchronously and reports whether one was bound.
//
//	reg := guildhooks.NewRegistry()
//	reg.Set(guildhooks.MemberAdded, guildhooks.HandlerFunc(func(guildID, playerGUID uint64) {
//	    // ...
//	}))
//	if reg.Dispatch(guildhooks.MemberAdded, guildID, playerGUID) == guildhooks.StatusNoHook {
//	    // fall back to default behaviour
//	}
package guildhooks

import "sync/atomic"

// Handler receives a guild membership event.
type Handler interface {
	HandleGuildEvent(guildID, playerGUID uint64)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(guildID, playerGUID uint64)

// HandleGuildEvent calls f(guildID, playerGUID).
func (f HandlerFunc) HandleGuildEvent(guildID, playerGUID uint64) {
	f(guildID, playerGUID)
}

// binding boxes a Handler so it can be swapped through an atomic.Pointer.
type binding struct {
	h Handler
}

// Registry is safe for concurrent use. The zero value is ready to use with
// every kind unbound.
type Registry struct {
	slots [kindCount]atomic.Pointer[binding]
}

// NewRegistry creates a Registry with every kind unbound.
func NewRegistry() *Registry {
	return &Registry{}
}

// Set binds h to kind, replacing whatever was bound before. A nil h (or a nil
// HandlerFunc) unbinds the kind. Unknown kinds are ignored.
func (r *Registry) Set(kind Kind, h Handler) {
	if !kind.Valid() {
		return
	}
	if isEmpty(h) {
		r.slots[kind].Store(nil)
		return
	}
	r.slots[kind].Store(&binding{h: h})
}

// SetOnMemberAdded binds h to MemberAdded.
func (r *Registry) SetOnMemberAdded(h Handler) { r.Set(MemberAdded, h) }

// SetOnMemberLeft binds h to MemberLeft.
func (r *Registry) SetOnMemberLeft(h Handler) { r.Set(MemberLeft, h) }

// SetOnMemberRemoved binds h to MemberRemoved.
func (r *Registry) SetOnMemberRemoved(h Handler) { r.Set(MemberRemoved, h) }

// Bound reports whether a handler is currently bound to kind.
func (r *Registry) Bound(kind Kind) bool {
	if !kind.Valid() {
		return false
	}
	return r.slots[kind].Load() != nil
}

// Dispatch calls the handler bound to kind with guildID and playerGUID and
// returns StatusOK once it returns. With nothing bound it returns
// StatusNoHook without calling anything.
//
// No lock is held while the handler runs, so a handler may call Set. A panic
// raised by the handler is not recovered here.
func (r *Registry) Dispatch(kind Kind, guildID, playerGUID uint64) Status {
	if !kind.Valid() {
		return StatusNoHook
	}
	b := r.slots[kind].Load()
	if b == nil {
		return StatusNoHook
	}
	b.h.HandleGuildEvent(guildID, playerGUID)
	return StatusOK
}

func isEmpty(h Handler) bool {
	if h == nil {
		return true
	}
	if f, ok := h.(HandlerFunc); ok && f == nil {
		return true
	}
	return false
}
