package gofutures

import (
	"context"
	"fmt"

	"github.com/KazakovDenis/gofutures/core"
)

// ResultFuture is a Future whose value is known to be of type T.
type ResultFuture[T any] struct {
	*core.Future
}

// Value blocks like Future.Result and returns the task's value as T.
func (f *ResultFuture[T]) Value(ctx context.Context) (T, error) {
	var zero T
	value, err := f.Result(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type %T", value)
	}
	return typed, nil
}

// SubmitResult submits a typed task and returns a typed view of its future.
//
// Example:
//
//	fut, err := gofutures.SubmitResult(bridge, func(ctx context.Context) (int, error) {
//	    return 42, nil
//	})
//	n, err := fut.Value(context.Background())
func SubmitResult[T any](b *core.Bridge, task func(ctx context.Context) (T, error)) (*ResultFuture[T], error) {
	fut, err := b.Submit(func(ctx context.Context) (any, error) {
		return task(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &ResultFuture[T]{Future: fut}, nil
}

// Await delegates a typed blocking call from inside a scheduled task.
func Await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	value, err := core.Delegate(ctx, func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected delegation result type %T", value)
	}
	return typed, nil
}
