package rxz

import "context"

// Unbatch flattens batches into individual values, preserving order. It is
// the inverse of Buffer and Batch. The result is not demand-aware: one batch
// yields as many values as it holds.
//
// When to use:
//   - Unpacking results from batch APIs
//   - Processing array fields of records one element at a time
//
// Example:
//
//	// Pages of users from a paginated API, one user at a time
//	users := rxz.Unbatch(pages)
func Unbatch[T any](src Observable[[]T]) Observable[T] {
	return newObservable(src.mode, false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		return src.subscribe(ctx, unbatcher[T]{ctx: ctx, dst: sub})
	})
}

type unbatcher[T any] struct {
	ctx context.Context
	dst Subscriber[T]
}

func (u unbatcher[T]) OnValue(batch []T) {
	for _, v := range batch {
		if u.ctx.Err() != nil {
			return
		}
		u.dst.OnValue(v)
	}
}

func (u unbatcher[T]) OnError(err error) { u.dst.OnError(err) }
func (u unbatcher[T]) OnEnd()            { u.dst.OnEnd() }
