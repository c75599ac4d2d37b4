package gofutures

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/KazakovDenis/gofutures/core"
)

// InitEnv is the environment variable that opts in to the lazily-constructed
// process-wide bridge. Without it (and without an explicit InitGlobal call),
// RunAsync and SyncToAsync refuse to create anything implicitly.
const InitEnv = "GOFUTURES_INIT"

// =============================================================================
// Global Bridge Helper (Singleton)
// =============================================================================

var (
	globalBridge *core.Bridge
	globalMu     sync.Mutex
)

// InitGlobal explicitly constructs the process-wide bridge. A nil threadPool
// gets the default GoroutinePool. Calling it when the global bridge already
// exists is a no-op.
func InitGlobal(threadPool core.ThreadPool) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalBridge != nil {
		return nil
	}
	b, err := NewBridge(threadPool)
	if err != nil {
		return err
	}
	globalBridge = b
	return nil
}

// GlobalBridge returns the process-wide bridge, creating it on first use when
// the InitEnv opt-in is set. It never constructs the bridge implicitly:
// without InitGlobal or the opt-in it returns an error.
func GlobalBridge() (*core.Bridge, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalBridge != nil {
		return globalBridge, nil
	}
	if os.Getenv(InitEnv) == "" {
		return nil, fmt.Errorf("global bridge not initialized: call InitGlobal or set %s", InitEnv)
	}
	b, err := NewBridge(nil)
	if err != nil {
		return nil, err
	}
	globalBridge = b
	return globalBridge, nil
}

// ShutdownGlobal stops the global bridge with the given shutdown semantics
// and forgets it, so a later InitGlobal starts fresh.
func ShutdownGlobal(wait bool, cancelFutures bool) {
	globalMu.Lock()
	b := globalBridge
	globalBridge = nil
	globalMu.Unlock()

	if b != nil {
		b.Shutdown(wait, cancelFutures)
	}
}

// RunAsync submits a task to the global bridge. This is the single entrypoint
// for programs that do not want to hold a Bridge reference.
func RunAsync(task Task) (*Future, error) {
	b, err := GlobalBridge()
	if err != nil {
		return nil, err
	}
	return b.Submit(task)
}

// SyncToAsync delegates a blocking call to the global bridge's thread pool.
// Like core.Delegate, it is callable only from inside a scheduled task.
func SyncToAsync(ctx context.Context, fn func() (any, error)) (any, error) {
	return core.Delegate(ctx, fn)
}
