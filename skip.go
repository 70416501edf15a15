package rxz

// Skip discards the first n values of a stream and passes the rest through.
//
// When to use:
//   - Skip headers or metadata at the start of a stream
//   - Ignore warm-up data from sensors
//   - Implement offset-based pagination
//
// Example:
//
//	// Skip the first 10 warm-up readings
//	stable := rxz.Skip(readings, 10)
func Skip[T any](src Observable[T], n int) Observable[T] {
	return lift(src, func(dst Subscriber[T], _ Disposable) Subscriber[T] {
		return &skip[T]{dst: dst, remaining: n}
	})
}

type skip[T any] struct {
	dst       Subscriber[T]
	remaining int
	demand
}

func (s *skip[T]) OnInit(c Controller) { s.init(c, s.dst) }

func (s *skip[T]) OnValue(v T) {
	if s.remaining > 0 {
		s.remaining--
		s.replenish()
		return
	}
	s.dst.OnValue(v)
}

func (s *skip[T]) OnError(err error) { s.dst.OnError(err) }
func (s *skip[T]) OnEnd()            { s.dst.OnEnd() }

// SkipWhile discards values while predicate holds; from the first value that
// fails it, every value is passed through without consulting predicate again.
func SkipWhile[T any](src Observable[T], predicate func(T) bool) Observable[T] {
	return lift(src, func(dst Subscriber[T], stop Disposable) Subscriber[T] {
		return &skipWhile[T]{dst: dst, stop: stop, predicate: predicate}
	})
}

type skipWhile[T any] struct {
	dst       Subscriber[T]
	stop      Disposable
	predicate func(T) bool
	demand
	passing bool
	failed  bool
}

func (s *skipWhile[T]) OnInit(c Controller) { s.init(c, s.dst) }

func (s *skipWhile[T]) OnValue(v T) {
	if s.failed {
		return
	}
	if !s.passing {
		var skipping bool
		if err := guard(func() { skipping = s.predicate(v) }); err != nil {
			s.failed = true
			s.stop.Dispose()
			s.dst.OnError(err)
			return
		}
		if skipping {
			s.replenish()
			return
		}
		s.passing = true
	}
	s.dst.OnValue(v)
}

func (s *skipWhile[T]) OnError(err error) { s.dst.OnError(err) }
func (s *skipWhile[T]) OnEnd()            { s.dst.OnEnd() }
