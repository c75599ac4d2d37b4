package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned by Submit, Map and Delegate once the bridge
	// has begun shutting down, and by Delegate when called from outside a
	// scheduled task. It is never returned before shutdown starts.
	ErrInvalidState = errors.New("bridge is not accepting work")

	// ErrCancelled is the terminal error observed through a Future whose task
	// was cancelled before or during execution.
	ErrCancelled = errors.New("task was cancelled")

	// ErrTimeout is returned only by ResultWithin when the wait elapses.
	// It does not affect the future's own state.
	ErrTimeout = errors.New("result wait timed out")
)

// PanicError wraps a panic raised by a user task or blocking call so it can
// be delivered through a Future like any other failure.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}
