package gofutures

import "github.com/KazakovDenis/gofutures/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the gofutures package for most use cases.

// Task is the unit of cooperative work
type Task = core.Task

// TaskID identifies a submitted task
type TaskID = core.TaskID

// Bridge connects caller goroutines to a single-worker cooperative run loop
type Bridge = core.Bridge

// Future is the thread-safe completion handle for a submitted task
type Future = core.Future

// FutureState describes the lifecycle of a Future
type FutureState = core.FutureState

// BridgeState describes the lifecycle of a Bridge
type BridgeState = core.BridgeState

// ThreadPool runs blocking calls handed off by Delegate
type ThreadPool = core.ThreadPool

// Config holds configuration options for a Bridge
type Config = core.Config

// MapFunc is a task parameterized by one argument
type MapFunc = core.MapFunc

// Future state constants
const (
	StatePending   FutureState = core.StatePending
	StateCompleted FutureState = core.StateCompleted
	StateFailed    FutureState = core.StateFailed
	StateCancelled FutureState = core.StateCancelled
)

// Bridge state constants
const (
	StateRunning      BridgeState = core.StateRunning
	StateShuttingDown BridgeState = core.StateShuttingDown
	StateStopped      BridgeState = core.StateStopped
)

// Error kinds originated by the bridge itself
var (
	ErrInvalidState = core.ErrInvalidState
	ErrCancelled    = core.ErrCancelled
	ErrTimeout      = core.ErrTimeout
)

// PanicError wraps a panic raised by a user task or blocking call
type PanicError = core.PanicError

// Delegate hands a blocking call to the bridge's thread pool from inside a task
var Delegate = core.Delegate

// Yield is an explicit suspension point inside a task
var Yield = core.Yield

// CurrentBridge returns the Bridge driving the calling task
var CurrentBridge = core.CurrentBridge
