package core

import (
	"context"
	"sync"
	"time"
)

// FutureState describes the lifecycle of a Future. Transitions are monotonic:
// Pending moves to exactly one of Completed, Failed or Cancelled and never
// back.
type FutureState int

const (
	StatePending FutureState = iota
	StateCompleted
	StateFailed
	StateCancelled
)

func (s FutureState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Future is a thread-safe, single-assignment cell for a task's eventual
// outcome. The bridge's worker is the only writer; any number of goroutines
// may read or wait concurrently and all observe the same terminal outcome.
type Future struct {
	id TaskID

	mu      sync.Mutex
	state   FutureState
	value   any
	err     error
	started bool
	done    chan struct{}

	// Signals the running task to abandon its work at its next suspension
	// point. Cancellation is cooperative, never preemptive.
	cancelTask context.CancelFunc
}

func newFuture(id TaskID, cancelTask context.CancelFunc) *Future {
	return &Future{
		id:         id,
		done:       make(chan struct{}),
		cancelTask: cancelTask,
	}
}

// ID returns the identifier of the task this future belongs to.
func (f *Future) ID() TaskID {
	return f.id
}

// State returns the current state. Useful for polling; use Done or Result to
// wait.
func (f *Future) State() FutureState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Done returns a channel that is closed once the future is terminal.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the future is terminal or ctx is done. It returns the
// task's value on success, the task's own error on failure (verbatim, never
// wrapped) and ErrCancelled if the task was cancelled.
func (f *Future) Result(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.terminal()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ResultWithin is Result with a deadline. It returns ErrTimeout if the wait
// elapses first, without altering the future's state: a later call may still
// observe the eventual terminal outcome.
func (f *Future) ResultWithin(timeout time.Duration) (any, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.terminal()
	case <-timer.C:
		return nil, ErrTimeout
	}
}

// Cancel requests cancellation and reports whether the request had effect
// (false if the future is already terminal). A task that has not started yet
// is cancelled immediately and will never run. A task already running is
// signalled to stop at its next suspension point; its future becomes
// Cancelled only once the task actually unwinds.
func (f *Future) Cancel() bool {
	f.mu.Lock()
	if f.state != StatePending {
		f.mu.Unlock()
		return false
	}
	cancel := f.cancelTask
	if !f.started {
		f.state = StateCancelled
		f.err = ErrCancelled
		close(f.done)
	}
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return true
}

func (f *Future) terminal() (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateCompleted:
		return f.value, nil
	case StateCancelled:
		return nil, ErrCancelled
	default:
		return nil, f.err
	}
}

// =============================================================================
// Writer side (bridge worker only)
// =============================================================================

// markStarted flips the future into the running phase and reports whether the
// task may actually run. It is atomic with Cancel: once it returns true, a
// concurrent Cancel can only signal, never pre-empt.
func (f *Future) markStarted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StatePending {
		return false
	}
	f.started = true
	return true
}

func (f *Future) complete(value any) {
	f.transition(StateCompleted, value, nil)
}

func (f *Future) fail(err error) {
	f.transition(StateFailed, nil, err)
}

func (f *Future) cancelled() {
	f.transition(StateCancelled, nil, ErrCancelled)
}

func (f *Future) transition(state FutureState, value any, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StatePending {
		// Already terminal, e.g. cancelled while the task was unwinding.
		return
	}
	f.state = state
	f.value = value
	f.err = err
	close(f.done)
}
