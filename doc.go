// Package gofutures bridges blocking, multi-goroutine code and a
// single-worker cooperative run loop.
//
// A Bridge owns exactly one dedicated worker goroutine that interleaves
// suspendable tasks. Arbitrary caller goroutines submit work into it and get
// thread-safe Futures back; tasks running inside the loop can delegate
// blocking calls out to a thread pool and resume when they finish.
//
// # Quick Start
//
//	bridge, err := gofutures.NewBridge(nil) // default delegation pool
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer bridge.Shutdown(true, false)
//
//	fut, err := bridge.Submit(func(ctx context.Context) (any, error) {
//		// Runs on the bridge's worker; other tasks interleave at
//		// suspension points.
//		return gofutures.Delegate(ctx, func() (any, error) {
//			return fetchSomethingBlocking()
//		})
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := fut.Result(context.Background())
//
// # Key Concepts
//
// Bridge: the thread-safe entry point. Submit may be called from any
// goroutine and returns a Future immediately. Tasks begin executing in
// submission order; a task that suspends may finish after a later one.
//
// Future: a single-assignment completion handle. Monotonic state
// (Pending then exactly one of Completed, Failed, Cancelled), readable from
// any number of goroutines, cancellable before completion. Cancellation is
// cooperative: a running task is signalled and stops at its next suspension
// point, never preemptively.
//
// Delegate: hands a blocking call to the bridge's ThreadPool and suspends
// only the calling task. The worker keeps running other tasks until the pool
// finishes.
//
// Shutdown: idempotent, with explicit semantics for in-flight and
// never-started work. Submissions fail with ErrInvalidState the moment
// shutdown begins; queued and in-flight tasks drain (or are cancelled when
// cancelFutures is set) before the worker exits.
//
// The process-wide singleton (RunAsync, SyncToAsync) is opt-in only: it is
// created lazily on first use, and only after InitGlobal or the GOFUTURES_INIT
// environment variable.
package gofutures
