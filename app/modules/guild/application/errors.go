package guildservice

import "errors"

var (
	// ErrUnknownKind is returned when an event names a hook kind that does not exist.
	ErrUnknownKind = errors.New("unknown guild hook kind")
	// ErrEnqueueFailed wraps queue errors so handlers can tell them from decode failures.
	ErrEnqueueFailed = errors.New("failed to enqueue guild hook call")
)
