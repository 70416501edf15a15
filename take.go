package rxz

import "context"

// Take limits the stream to the first n values. As soon as the n-th value has
// been delivered the upstream subscription is disposed and the stream ends; it
// never waits for upstream completion. Take with n <= 0 ends immediately
// without subscribing upstream.
//
// When to use:
//   - Limit processing to a sample of data
//   - Early termination of infinite streams
//   - Testing with limited data sets
//
// Example:
//
//	// Process only the first 100 events
//	limited := rxz.Take(events, 100)
func Take[T any](src Observable[T], n int) Observable[T] {
	if n <= 0 {
		return newObservable(src.mode, false, func(_ context.Context, sub Subscriber[T]) Disposable {
			sub.OnEnd()
			return Disposed
		})
	}
	return lift(src, func(dst Subscriber[T], stop Disposable) Subscriber[T] {
		return &take[T]{dst: dst, stop: stop, remaining: n}
	})
}

type take[T any] struct {
	dst       Subscriber[T]
	stop      Disposable
	remaining int
	demand
}

func (t *take[T]) OnInit(c Controller) { t.init(c, t.dst) }

func (t *take[T]) OnValue(v T) {
	if t.remaining <= 0 {
		return
	}
	t.remaining--
	t.dst.OnValue(v)
	if t.remaining == 0 {
		t.stop.Dispose()
		t.dst.OnEnd()
	}
}

func (t *take[T]) OnError(err error) { t.dst.OnError(err) }
func (t *take[T]) OnEnd()            { t.dst.OnEnd() }

// TakeWhile forwards values while predicate holds. On the first value that
// fails the predicate the upstream subscription is disposed and the stream
// ends; that value is not emitted.
//
// Example:
//
//	// Read sensor values until the first out-of-range reading
//	inRange := rxz.TakeWhile(readings, func(r Reading) bool {
//		return r.Value < threshold
//	})
func TakeWhile[T any](src Observable[T], predicate func(T) bool) Observable[T] {
	return lift(src, func(dst Subscriber[T], stop Disposable) Subscriber[T] {
		return &takeWhile[T]{dst: dst, stop: stop, predicate: predicate}
	})
}

type takeWhile[T any] struct {
	dst       Subscriber[T]
	stop      Disposable
	predicate func(T) bool
	demand
	done bool
}

func (t *takeWhile[T]) OnInit(c Controller) { t.init(c, t.dst) }

func (t *takeWhile[T]) OnValue(v T) {
	if t.done {
		return
	}
	var ok bool
	if err := guard(func() { ok = t.predicate(v) }); err != nil {
		t.done = true
		t.stop.Dispose()
		t.dst.OnError(err)
		return
	}
	if !ok {
		t.done = true
		t.stop.Dispose()
		t.dst.OnEnd()
		return
	}
	t.dst.OnValue(v)
}

func (t *takeWhile[T]) OnError(err error) { t.dst.OnError(err) }
func (t *takeWhile[T]) OnEnd()            { t.dst.OnEnd() }

// Slice emits the values at positions start (inclusive) through end
// (exclusive). It is Skip(start) followed by Take(end-start).
func Slice[T any](src Observable[T], start, end int) Observable[T] {
	return Take(Skip(src, start), end-start)
}
