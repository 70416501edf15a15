package rxz

import "go.uber.org/zap"

// Tap runs a side effect for every event of a stream while passing the events
// through unchanged. fn receives each value as Next(v) and the termination as
// End() or Error(err). A panicking side effect is logged and otherwise ignored;
// it never alters the stream.
//
// When to use:
//   - Debug logging and tracing
//   - Metrics collection and monitoring
//   - Audit trails
//
// Example:
//
//	// Count values and errors
//	var processed, failed atomic.Int64
//	observed := rxz.Tap(orders, func(sig rxz.Signal[Order]) {
//		switch sig.Kind() {
//		case rxz.KindNext:
//			processed.Add(1)
//		case rxz.KindError:
//			failed.Add(1)
//		}
//	})
func Tap[T any](src Observable[T], fn func(Signal[T])) Observable[T] {
	return lift(src, func(dst Subscriber[T], _ Disposable) Subscriber[T] {
		return &tap[T]{dst: dst, fn: fn}
	})
}

type tap[T any] struct {
	dst Subscriber[T]
	fn  func(Signal[T])
	demand
}

func (t *tap[T]) OnInit(c Controller) { t.init(c, t.dst) }

func (t *tap[T]) OnValue(v T) {
	t.observe(Next(v))
	t.dst.OnValue(v)
}

func (t *tap[T]) OnError(err error) {
	t.observe(Error[T](err))
	t.dst.OnError(err)
}

func (t *tap[T]) OnEnd() {
	t.observe(End[T]())
	t.dst.OnEnd()
}

func (t *tap[T]) observe(sig Signal[T]) {
	if err := guard(func() { t.fn(sig) }); err != nil {
		Logger().Warn("tap side effect panicked",
			zap.Stringer("signal", sig.Kind()),
			zap.Error(err))
	}
}
