package rxz

// Filter selectively passes values through a stream based on a predicate.
// Only values for which predicate returns true are forwarded; the others are
// discarded. On a demand-aware stream every discarded value is replaced by a
// request for one more upstream value, so downstream demand accounting is not
// affected. Errors and completion pass through unchanged.
//
// The predicate should be pure (no side effects) and deterministic for
// consistent and predictable filtering behavior.
//
// When to use:
//   - Remove invalid or unwanted data from streams
//   - Apply business rules and validation logic
//   - Reduce processing load by filtering upstream
//
// Example:
//
//	// Filter positive numbers
//	positive := rxz.Filter(numbers, func(n int) bool {
//		return n > 0
//	})
//
//	// Filter valid orders
//	valid := rxz.Filter(orders, func(order Order) bool {
//		return order.ID != "" && order.Amount > 0 && order.Status == "pending"
//	})
func Filter[T any](src Observable[T], predicate func(T) bool) Observable[T] {
	return lift(src, func(dst Subscriber[T], stop Disposable) Subscriber[T] {
		return &filter[T]{dst: dst, stop: stop, predicate: predicate}
	})
}

type filter[T any] struct {
	dst       Subscriber[T]
	stop      Disposable
	predicate func(T) bool
	demand
	failed bool
}

func (f *filter[T]) OnInit(c Controller) { f.init(c, f.dst) }

func (f *filter[T]) OnValue(v T) {
	if f.failed {
		return
	}
	var keep bool
	if err := guard(func() { keep = f.predicate(v) }); err != nil {
		f.failed = true
		f.stop.Dispose()
		f.dst.OnError(err)
		return
	}
	if !keep {
		f.replenish()
		return
	}
	f.dst.OnValue(v)
}

func (f *filter[T]) OnError(err error) { f.dst.OnError(err) }
func (f *filter[T]) OnEnd()            { f.dst.OnEnd() }
