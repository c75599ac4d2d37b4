package core

import (
	"context"

	"github.com/google/uuid"
)

// Task is the unit of cooperative work. All tasks submitted to a bridge
// interleave on its single dedicated worker: at most one task executes at any
// instant, and control passes to another task only at explicit suspension
// points (Delegate, Yield). The context carries the owning bridge and is
// cancelled when the task is cancelled.
type Task func(ctx context.Context) (any, error)

// TaskID identifies a submitted task for the lifetime of its Future.
type TaskID string

// GenerateTaskID returns a new unique task identifier.
func GenerateTaskID() TaskID {
	return TaskID(uuid.NewString())
}

// =============================================================================
// Context Helper
// =============================================================================

type bridgeKeyType struct{}

var bridgeKey bridgeKeyType

// CurrentBridge returns the Bridge driving the calling task, or nil when the
// context does not belong to a scheduled task.
func CurrentBridge(ctx context.Context) *Bridge {
	if v := ctx.Value(bridgeKey); v != nil {
		return v.(*Bridge)
	}
	return nil
}
