package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// Delegate hands a blocking call to the bridge's thread pool and suspends
// only the calling cooperative task until the call finishes: the worker keeps
// running other tasks in the meantime. The pool's result or error is returned
// to the task verbatim.
//
// Delegate is callable only from inside a scheduled task; anywhere else it
// returns ErrInvalidState. New delegations also fail with ErrInvalidState
// once the bridge is shutting down.
//
// If the task is cancelled while suspended, Delegate returns ErrCancelled as
// soon as the task is resumed; the blocking call itself is not interrupted
// and runs to completion on the pool.
func Delegate(ctx context.Context, fn func() (any, error)) (any, error) {
	b := CurrentBridge(ctx)
	if b == nil {
		return nil, fmt.Errorf("%w: Delegate called outside a scheduled task", ErrInvalidState)
	}
	return b.delegate(ctx, fn)
}

func (b *Bridge) delegate(ctx context.Context, fn func() (any, error)) (any, error) {
	if b.State() != StateRunning {
		return nil, fmt.Errorf("%w: delegation after shutdown", ErrInvalidState)
	}
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}

	type outcome struct {
		value any
		err   error
	}
	// Buffered so an abandoned delegation cannot leak the pool goroutine.
	done := make(chan outcome, 1)
	suspendedAt := time.Now()

	// Suspension point: give up the gate before touching the pool, so a
	// saturated pool can never stall the worker loop.
	b.gate.release()
	b.pool.Go(func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: &PanicError{Value: rec, Stack: debug.Stack()}}
			}
		}()
		value, err := fn()
		done <- outcome{value: value, err: err}
	})

	var out outcome
	var interrupted bool
	select {
	case out = <-done:
	case <-ctx.Done():
		interrupted = true
	}

	// Resume: the task continues only once it holds the gate again.
	b.gate.acquire()
	b.metrics.RecordDelegation(b.name, time.Since(suspendedAt))

	if interrupted {
		return nil, ErrCancelled
	}
	return out.value, out.err
}

// Yield is an explicit suspension point. The calling task gives up the gate,
// letting queued tasks run, and resumes once the gate is free again. It
// returns ErrCancelled if the task was cancelled; a task that never suspends
// cannot observe cancellation.
func Yield(ctx context.Context) error {
	b := CurrentBridge(ctx)
	if b == nil {
		return fmt.Errorf("%w: Yield called outside a scheduled task", ErrInvalidState)
	}

	b.gate.release()
	b.gate.acquire()

	if ctx.Err() != nil {
		return ErrCancelled
	}
	return nil
}
