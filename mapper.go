package rxz

// Map transforms each value of src with fn. A panic in fn terminates the stream
// with an error matching ErrPanic and cancels the upstream subscription.
//
// When to use:
//   - Type conversions between data representations
//   - Extracting fields or computing derived values
//   - Normalizing data formats
//
// Example:
//
//	names := rxz.Map(users, func(u User) string {
//		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
//	})
func Map[T, R any](src Observable[T], fn func(T) R) Observable[R] {
	return TryMap(src, func(v T) (R, error) {
		return fn(v), nil
	})
}

// TryMap transforms each value of src with fn. The first error returned by fn
// terminates the stream with that error, unchanged.
func TryMap[T, R any](src Observable[T], fn func(T) (R, error)) Observable[R] {
	return lift(src, func(dst Subscriber[R], stop Disposable) Subscriber[T] {
		return &mapper[T, R]{dst: dst, stop: stop, fn: fn}
	})
}

type mapper[T, R any] struct {
	dst  Subscriber[R]
	stop Disposable
	fn   func(T) (R, error)
	demand
	failed bool
}

func (m *mapper[T, R]) OnInit(c Controller) { m.init(c, m.dst) }

func (m *mapper[T, R]) OnValue(v T) {
	if m.failed {
		return
	}
	var (
		out R
		err error
	)
	if perr := guard(func() { out, err = m.fn(v) }); perr != nil {
		err = perr
	}
	if err != nil {
		m.failed = true
		m.stop.Dispose()
		m.dst.OnError(err)
		return
	}
	m.dst.OnValue(out)
}

func (m *mapper[T, R]) OnError(err error) { m.dst.OnError(err) }
func (m *mapper[T, R]) OnEnd()            { m.dst.OnEnd() }
