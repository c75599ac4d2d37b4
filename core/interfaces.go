package core

import "time"

// =============================================================================
// ThreadPool: Interface for blocking delegation
// =============================================================================

// ThreadPool runs blocking calls handed off by Delegate. It is shared by all
// tasks on a bridge; no task may assume exclusive use of it.
//
// Implementations must be safe for concurrent use.
type ThreadPool interface {
	// Go schedules fn for execution. It may block the caller when the pool is
	// saturated; Delegate always releases the run gate before calling Go, so
	// a saturated pool never stalls the bridge's worker loop.
	Go(fn func())
}

// StoppableThreadPool is a ThreadPool the bridge tears down during shutdown
// when it owns the pool (Config.OwnPool).
type StoppableThreadPool interface {
	ThreadPool

	// Stop waits for in-flight calls to finish and releases pool resources.
	Stop()
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting bridge metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast to avoid impacting task execution.
type Metrics interface {
	// RecordTaskSubmitted records that a task was accepted into the run queue.
	RecordTaskSubmitted(bridge string)

	// RecordTaskCompleted records a task reaching a terminal state
	// ("completed", "failed" or "cancelled") and how long it ran.
	// Duration is zero for tasks cancelled before they started.
	RecordTaskCompleted(bridge string, state string, duration time.Duration)

	// RecordTaskRejected records a submission rejected by the bridge
	// (e.g. during shutdown).
	RecordTaskRejected(bridge string, reason string)

	// RecordQueueDepth records the current run-queue depth.
	RecordQueueDepth(bridge string, depth int)

	// RecordDelegation records a blocking call delegated to the thread pool
	// and the time the calling task stayed suspended.
	RecordDelegation(bridge string, duration time.Duration)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskSubmitted is a no-op.
func (m *NilMetrics) RecordTaskSubmitted(bridge string) {}

// RecordTaskCompleted is a no-op.
func (m *NilMetrics) RecordTaskCompleted(bridge string, state string, duration time.Duration) {}

// RecordTaskRejected is a no-op.
func (m *NilMetrics) RecordTaskRejected(bridge string, reason string) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(bridge string, depth int) {}

// RecordDelegation is a no-op.
func (m *NilMetrics) RecordDelegation(bridge string, duration time.Duration) {}

// =============================================================================
// Config: Configuration for Bridge
// =============================================================================

// Config holds configuration options for a Bridge. Pool is required; all
// other fields are optional and fall back to defaults.
type Config struct {
	// Pool executes blocking calls handed off by Delegate.
	Pool ThreadPool

	// OwnPool marks the pool as owned by the bridge: shutdown stops it once
	// the worker loop has drained.
	OwnPool bool

	// Logger receives bridge lifecycle events. Defaults to NoOpLogger; the
	// bridge never logs task errors, they travel through futures only.
	Logger Logger

	// Metrics records submission/completion/delegation events. Defaults to NilMetrics.
	Metrics Metrics

	// Name identifies the bridge in logs and metrics. Defaults to "bridge-N".
	Name string
}
