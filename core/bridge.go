package core

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// BridgeState describes the lifecycle of a Bridge.
type BridgeState int

const (
	// StateRunning: the bridge accepts submissions.
	StateRunning BridgeState = iota

	// StateShuttingDown: shutdown has been requested; submissions fail with
	// ErrInvalidState while queued and in-flight tasks drain.
	StateShuttingDown

	// StateStopped: the worker loop has exited and all resources are released.
	StateStopped
)

func (s BridgeState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

const defaultQueueCap = 16

// taskEntry carries one submitted task through the run queue.
type taskEntry struct {
	id     TaskID
	task   Task
	fut    *Future
	ctx    context.Context
	cancel context.CancelFunc

	// stop marks the internal sentinel that ends the worker loop once the
	// queue ahead of it has drained.
	stop bool
}

// Bridge connects arbitrary caller goroutines to a run loop owned by one
// dedicated worker goroutine. Callers submit tasks from any goroutine and
// receive a Future immediately; tasks interleave cooperatively on the worker
// and may delegate blocking calls to a thread pool without stalling the loop.
//
// Exactly one worker goroutine is associated with a Bridge for its entire
// lifetime. The run queue is the only state mutated across the goroutine
// boundary and is guarded by one mutex together with the lifecycle state, so
// a submission can never race past a concurrent shutdown.
type Bridge struct {
	name    string
	pool    ThreadPool
	ownPool bool
	logger  Logger
	metrics Metrics

	mu       sync.Mutex
	state    BridgeState
	queue    []*taskEntry
	registry map[TaskID]*Future

	// Wakes the worker when the queue goes non-empty. Capacity 1: the worker
	// re-checks the queue after every pop, so a collapsed signal is never lost.
	signal chan struct{}

	gate    *runGate
	running sync.WaitGroup

	// Parent of every task context. Cancelled only during teardown, after all
	// tasks have unwound.
	baseCtx    context.Context
	baseCancel context.CancelFunc

	shutdownOnce sync.Once
	stopped      chan struct{}
}

var bridgeCounter atomic.Int64

// New creates a Bridge and synchronously starts its dedicated worker: it does
// not return until the worker is ready to accept submissions, so an early
// Submit can never be lost to a not-yet-started loop. There is no partially
// started bridge; configuration errors are returned before the worker spawns.
func New(cfg Config) (*Bridge, error) {
	if cfg.Pool == nil {
		return nil, fmt.Errorf("core: Config.Pool is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = NewNoOpLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &NilMetrics{}
	}
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("bridge-%d", bridgeCounter.Add(1)-1)
	}

	b := &Bridge{
		name:     cfg.Name,
		pool:     cfg.Pool,
		ownPool:  cfg.OwnPool,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		queue:    make([]*taskEntry, 0, defaultQueueCap),
		registry: make(map[TaskID]*Future),
		signal:   make(chan struct{}, 1),
		gate:     newRunGate(),
		stopped:  make(chan struct{}),
	}
	b.baseCtx, b.baseCancel = context.WithCancel(context.Background())

	ready := make(chan struct{})
	go b.runLoop(ready)
	<-ready

	return b, nil
}

// Name returns the bridge's name.
func (b *Bridge) Name() string {
	return b.name
}

// State returns the current lifecycle state.
func (b *Bridge) State() BridgeState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// String implements fmt.Stringer.
func (b *Bridge) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("<%s state=%s tasks=%d>", b.name, b.state, len(b.registry))
}

// Tasks returns the identities of all outstanding tasks (queued or in-flight).
func (b *Bridge) Tasks() []TaskID {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]TaskID, 0, len(b.registry))
	for id := range b.registry {
		ids = append(ids, id)
	}
	return ids
}

// OutstandingCount returns the number of outstanding tasks.
func (b *Bridge) OutstandingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.registry)
}

// Stats returns a snapshot of the bridge's runtime state.
func (b *Bridge) Stats() BridgeStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BridgeStats{
		Name:        b.name,
		State:       b.state.String(),
		Queued:      len(b.queue),
		Outstanding: len(b.registry),
	}
}

// =============================================================================
// Submission
// =============================================================================

// Submit schedules task on the bridge's worker and returns its Future without
// waiting for the task to run. It may be called from any goroutine. Tasks
// submitted by a single goroutine begin executing in submission order; a task
// that suspends may still finish after a later-submitted one.
//
// Returns ErrInvalidState once the bridge has begun shutting down. The state
// check and the enqueue happen under one lock, so a submission accepted here
// is guaranteed to be seen by the worker before it stops.
func (b *Bridge) Submit(task Task) (*Future, error) {
	if task == nil {
		return nil, fmt.Errorf("core: Submit called with nil task")
	}

	b.mu.Lock()
	if b.state != StateRunning {
		b.mu.Unlock()
		b.metrics.RecordTaskRejected(b.name, "shutting down")
		b.logger.Debug("submission rejected", F("bridge", b.name))
		return nil, ErrInvalidState
	}

	id := GenerateTaskID()
	taskCtx, cancel := context.WithCancel(b.baseCtx)
	fut := newFuture(id, cancel)
	b.queue = append(b.queue, &taskEntry{
		id:     id,
		task:   task,
		fut:    fut,
		ctx:    taskCtx,
		cancel: cancel,
	})
	b.registry[id] = fut
	depth := len(b.queue)
	b.mu.Unlock()

	b.wake()
	b.metrics.RecordTaskSubmitted(b.name)
	b.metrics.RecordQueueDepth(b.name, depth)
	return fut, nil
}

// CancelAll cancels every currently outstanding task without shutting the
// bridge down. Queued tasks become Cancelled immediately; running tasks are
// signalled and observe the cancellation at their next suspension point.
func (b *Bridge) CancelAll() {
	b.mu.Lock()
	futs := make([]*Future, 0, len(b.registry))
	for _, fut := range b.registry {
		futs = append(futs, fut)
	}
	b.mu.Unlock()

	for _, fut := range futs {
		fut.Cancel()
	}
}

func (b *Bridge) wake() {
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// =============================================================================
// Lifecycle
// =============================================================================

// Shutdown stops the bridge. It is idempotent: calls after the first have no
// additional effect and do not error, though wait is honoured on every call.
//
// The state moves to ShuttingDown immediately, failing all subsequent
// submissions with ErrInvalidState. If cancelFutures is true, every
// outstanding future is cancelled; regardless, already-queued and in-flight
// tasks run to natural completion unless cancelled. A final sentinel stops
// the worker once the queue ahead of it has drained.
//
// If wait is true, Shutdown blocks until the worker has fully exited; calling
// it with wait=true from inside a task would therefore deadlock. If wait is
// false, teardown continues in the background.
func (b *Bridge) Shutdown(wait bool, cancelFutures bool) {
	b.shutdownOnce.Do(func() {
		b.mu.Lock()
		b.state = StateShuttingDown
		b.mu.Unlock()
		b.logger.Info("shutdown requested",
			F("bridge", b.name), F("cancel_futures", cancelFutures))

		if cancelFutures {
			b.CancelAll()
		}

		// The sentinel lands behind everything already queued, so the worker
		// drains the queue before it stops.
		b.mu.Lock()
		b.queue = append(b.queue, &taskEntry{stop: true})
		b.mu.Unlock()
		b.wake()
	})

	if wait {
		<-b.stopped
	}
}

// Stopped returns a channel that is closed once teardown has completed.
func (b *Bridge) Stopped() <-chan struct{} {
	return b.stopped
}

// =============================================================================
// Worker loop
// =============================================================================

// runLoop is the dedicated worker. It owns dequeueing for the lifetime of the
// bridge: entries begin executing strictly in queue order because the gate is
// acquired here, before the next entry is even looked at.
func (b *Bridge) runLoop(ready chan<- struct{}) {
	close(ready)
	b.logger.Debug("worker loop started", F("bridge", b.name))

	for {
		entry, ok := b.dequeue()
		if !ok {
			<-b.signal
			continue
		}
		if entry.stop {
			break
		}
		if entry.fut.State() != StatePending {
			// Cancelled before it ever started.
			entry.cancel()
			b.unregister(entry.id, entry.fut, 0)
			continue
		}

		b.gate.acquire()
		if !entry.fut.markStarted() {
			// Cancelled while this entry was waiting for the gate.
			b.gate.release()
			entry.cancel()
			b.unregister(entry.id, entry.fut, 0)
			continue
		}
		b.running.Add(1)
		go b.runTask(entry)
	}

	// Sentinel reached: no submissions can arrive anymore. Wait for in-flight
	// tasks to complete or observe their cancellation, then tear down.
	b.running.Wait()
	b.teardown()
}

func (b *Bridge) dequeue() (*taskEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	entry := b.queue[0]
	// Zero out the element in the underlying array to prevent memory leak
	b.queue[0] = nil
	b.queue = b.queue[1:]
	if len(b.queue) == 0 && cap(b.queue) > defaultQueueCap*4 {
		b.queue = make([]*taskEntry, 0, defaultQueueCap)
	}
	return entry, true
}

// runTask executes one cooperative task. It runs on its own goroutine but
// holds the run gate, so it never executes in parallel with another task;
// the gate is released only at suspension points and on completion.
func (b *Bridge) runTask(entry *taskEntry) {
	defer b.running.Done()

	startedAt := time.Now()
	value, err := b.callTask(entry)

	switch {
	case err == nil:
		entry.fut.complete(value)
	case isCancellation(err, entry.ctx):
		entry.fut.cancelled()
	default:
		entry.fut.fail(err)
	}

	entry.cancel()
	b.unregister(entry.id, entry.fut, time.Since(startedAt))
	b.gate.release()
}

// callTask invokes the user task with panic capture. Panics become a
// PanicError on the future; the bridge itself never recovers a task's own
// error, it is purely a transport.
func (b *Bridge) callTask(entry *taskEntry) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()

	ctx := context.WithValue(entry.ctx, bridgeKey, b)
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}
	return entry.task(ctx)
}

func isCancellation(err error, ctx context.Context) bool {
	// A task surfacing the cancellation, wrapped or not, counts only when its
	// context was actually cancelled; a stray context.Canceled from elsewhere
	// is a failure of the task's own.
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

func (b *Bridge) unregister(id TaskID, fut *Future, duration time.Duration) {
	b.mu.Lock()
	delete(b.registry, id)
	depth := len(b.queue)
	b.mu.Unlock()

	b.metrics.RecordTaskCompleted(b.name, fut.State().String(), duration)
	b.metrics.RecordQueueDepth(b.name, depth)
}

func (b *Bridge) teardown() {
	b.baseCancel()
	if b.ownPool {
		if sp, ok := b.pool.(StoppableThreadPool); ok {
			sp.Stop()
		}
	}

	b.mu.Lock()
	b.state = StateStopped
	b.mu.Unlock()

	b.logger.Info("worker loop stopped", F("bridge", b.name))
	close(b.stopped)
}

// =============================================================================
// Run gate
// =============================================================================

// runGate admits one cooperative task at a time onto the bridge's worker.
// Waiters queue on the channel, so a task releasing the gate at a suspension
// point hands control to whoever has been waiting longest.
type runGate struct {
	slot chan struct{}
}

func newRunGate() *runGate {
	return &runGate{slot: make(chan struct{}, 1)}
}

func (g *runGate) acquire() {
	g.slot <- struct{}{}
}

func (g *runGate) release() {
	<-g.slot
}
