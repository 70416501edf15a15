package rxz

import "fmt"

// SignalKind identifies what a Signal carries.
type SignalKind int

const (
	// KindNext carries an ordinary value.
	KindNext SignalKind = iota
	// KindEndWith carries a last value; the stream ends right after it.
	KindEndWith
	// KindEnd ends the stream without a value.
	KindEnd
	// KindError ends the stream with an error.
	KindError
)

func (k SignalKind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindEndWith:
		return "end-with"
	case KindEnd:
		return "end"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("SignalKind(%d)", int(k))
	}
}

// Signal is the tagged event a sink receives: Next(v), EndWith(v), End() or
// Error(err). It keeps control signals apart from ordinary payloads.
type Signal[T any] struct {
	value T
	err   error
	kind  SignalKind
}

// Next returns a signal delivering v.
func Next[T any](v T) Signal[T] {
	return Signal[T]{kind: KindNext, value: v}
}

// EndWith returns a signal delivering v and then ending the stream.
func EndWith[T any](v T) Signal[T] {
	return Signal[T]{kind: KindEndWith, value: v}
}

// End returns a signal ending the stream.
func End[T any]() Signal[T] {
	return Signal[T]{kind: KindEnd}
}

// Error returns a signal terminating the stream with err.
func Error[T any](err error) Signal[T] {
	return Signal[T]{kind: KindError, err: err}
}

// Kind reports what the signal carries.
func (s Signal[T]) Kind() SignalKind {
	return s.kind
}

// Value returns the payload of a Next or EndWith signal and the zero value
// otherwise.
func (s Signal[T]) Value() T {
	return s.value
}

// Err returns the error of an Error signal and nil otherwise.
func (s Signal[T]) Err() error {
	return s.err
}

// HasValue reports whether the signal carries a payload.
func (s Signal[T]) HasValue() bool {
	return s.kind == KindNext || s.kind == KindEndWith
}

// IsTerminal reports whether the signal ends the stream.
func (s Signal[T]) IsTerminal() bool {
	return s.kind != KindNext
}

func (s Signal[T]) String() string {
	switch s.kind {
	case KindNext, KindEndWith:
		return fmt.Sprintf("%s(%v)", s.kind, s.value)
	case KindError:
		return fmt.Sprintf("error(%v)", s.err)
	default:
		return s.kind.String()
	}
}

// dispatch delivers the signal to sub.
func (s Signal[T]) dispatch(sub Subscriber[T]) {
	switch s.kind {
	case KindNext:
		sub.OnValue(s.value)
	case KindEndWith:
		sub.OnValue(s.value)
		sub.OnEnd()
	case KindEnd:
		sub.OnEnd()
	case KindError:
		sub.OnError(s.err)
	}
}
