package core

import (
	"context"
	"iter"
)

// MapFunc is a task parameterized by one argument, for use with Map.
type MapFunc func(ctx context.Context, arg any) (any, error)

// Map submits one task per argument and returns a lazy sequence of their
// results in argument order. Submission is eager; iteration blocks per
// element until that element's task completes. The first failure is yielded
// in place as the sequence's error and ends the iteration, without
// suppressing results already yielded before it.
func (b *Bridge) Map(fn MapFunc, args []any) iter.Seq2[any, error] {
	futs := make([]*Future, 0, len(args))
	var submitErr error
	for _, arg := range args {
		fut, err := b.Submit(func(ctx context.Context) (any, error) {
			return fn(ctx, arg)
		})
		if err != nil {
			submitErr = err
			break
		}
		futs = append(futs, fut)
	}

	return func(yield func(any, error) bool) {
		for _, fut := range futs {
			value, err := fut.Result(context.Background())
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(value, nil) {
				return
			}
		}
		if submitErr != nil {
			yield(nil, submitErr)
		}
	}
}
