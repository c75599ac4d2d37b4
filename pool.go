package gofutures

import (
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/KazakovDenis/gofutures/core"
)

// GoroutinePool is the default ThreadPool used for blocking delegation. It is
// a thin wrapper over a conc pool with a bounded number of workers.
type GoroutinePool struct {
	p *pool.Pool

	mu      sync.Mutex
	stopped bool
}

var _ core.StoppableThreadPool = (*GoroutinePool)(nil)

// NewGoroutinePool creates a pool running at most maxWorkers blocking calls
// concurrently. maxWorkers <= 0 selects a default sized for mixed IO-bound
// delegation.
func NewGoroutinePool(maxWorkers int) *GoroutinePool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() + 4
	}
	return &GoroutinePool{
		p: pool.New().WithMaxGoroutines(maxWorkers),
	}
}

// Go schedules fn on the pool. It may block when all workers are busy.
func (g *GoroutinePool) Go(fn func()) {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		// The bridge stops an owned pool only after its loop has drained, so
		// this path is reachable only for externally shared pools. Fall back
		// to a plain goroutine rather than losing the call.
		go fn()
		return
	}
	g.mu.Unlock()
	g.p.Go(fn)
}

// Stop waits for in-flight calls to finish and releases the pool. The pool
// must not be reused afterwards.
func (g *GoroutinePool) Stop() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	g.stopped = true
	g.mu.Unlock()
	g.p.Wait()
}

// =============================================================================
// Bridge construction
// =============================================================================

// NewBridge creates a Bridge and synchronously starts its dedicated worker.
// A nil threadPool gets a default GoroutinePool owned (and torn down) by the
// bridge; a caller-supplied pool stays under the caller's control.
func NewBridge(threadPool core.ThreadPool) (*core.Bridge, error) {
	cfg := core.Config{Pool: threadPool}
	if threadPool == nil {
		cfg.Pool = NewGoroutinePool(0)
		cfg.OwnPool = true
	}
	return core.New(cfg)
}

// NewBridgeWithConfig creates a Bridge from an explicit configuration.
// Config.Pool is defaulted like in NewBridge when nil.
func NewBridgeWithConfig(cfg core.Config) (*core.Bridge, error) {
	if cfg.Pool == nil {
		cfg.Pool = NewGoroutinePool(0)
		cfg.OwnPool = true
	}
	return core.New(cfg)
}
