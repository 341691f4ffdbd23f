// Package queue - errors.go
// Centralized, comparable error values used across the waitlist logic.
package queue

// qerr is a lightweight comparable error type.
// Using constants of this type allows errors.Is to work as expected.
type qerr string

func (e qerr) Error() string { return string(e) }

var (
	ErrAlreadyIn   = qerr("already in queue")
	ErrNotIn       = qerr("participant not in queue")
	ErrEmptyHandle = qerr("game handle is empty")
	ErrOutOfRange  = qerr("queue position out of range")
)
