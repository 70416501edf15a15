package rxz

import (
	"context"
)

// FromSlice returns a cold Observable emitting each element of items in order
// and then ending. The slice is read at subscription time.
func FromSlice[T any](items []T) Observable[T] {
	return newObservable(Cold, false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		for _, item := range items {
			if ctx.Err() != nil {
				return Disposed
			}
			sub.OnValue(item)
		}
		sub.OnEnd()
		return Disposed
	})
}

// Of returns a cold Observable emitting exactly the given values, then ending.
func Of[T any](values ...T) Observable[T] {
	return FromSlice(values)
}

// Just returns a cold Observable emitting v once, then ending.
func Just[T any](v T) Observable[T] {
	return FromSlice([]T{v})
}

// Range returns a cold Observable emitting 0 through n-1, then ending.
func Range(n int) Observable[int] {
	return newObservable(Cold, false, func(ctx context.Context, sub Subscriber[int]) Disposable {
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				return Disposed
			}
			sub.OnValue(i)
		}
		sub.OnEnd()
		return Disposed
	})
}

// Empty returns an Observable that ends immediately without values.
func Empty[T any]() Observable[T] {
	return newObservable(Cold, false, func(_ context.Context, sub Subscriber[T]) Disposable {
		sub.OnEnd()
		return Disposed
	})
}

// Never returns an Observable that emits nothing and never terminates.
func Never[T any]() Observable[T] {
	return newObservable(Cold, false, func(context.Context, Subscriber[T]) Disposable {
		return Disposed
	})
}

// Throw returns an Observable that terminates immediately with err.
func Throw[T any](err error) Observable[T] {
	return newObservable(Cold, false, func(_ context.Context, sub Subscriber[T]) Disposable {
		sub.OnError(err)
		return Disposed
	})
}

// Defer returns a cold Observable that calls fn on every subscription and
// subscribes to the Observable it returns. A panic in fn terminates the stream.
func Defer[T any](fn func() Observable[T]) Observable[T] {
	return newObservable(Cold, false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		var inner Observable[T]
		if err := guard(func() { inner = fn() }); err != nil {
			sub.OnError(err)
			return Disposed
		}
		return inner.subscribe(ctx, relay[T]{dst: sub})
	})
}
