package rxz

import (
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidValue is the terminal error of a stream whose sink received a
	// nil value, or an Error signal carrying a nil error.
	ErrInvalidValue = errors.New("rxz: invalid value")

	// ErrOverflow is raised by ToFlowable under ErrorStrategy when a value
	// arrives while downstream demand is exhausted.
	ErrOverflow = errors.New("rxz: backpressure overflow")

	// ErrPanic wraps a panic recovered from user code running inside the
	// engine, such as a Map function or a Create factory.
	ErrPanic = errors.New("rxz: panic")

	// ErrGenerateContract is raised when a Generate factory returns without
	// calling its sink.
	ErrGenerateContract = errors.New("rxz: generate factory did not emit")

	// ErrInvalidArgument is raised by operators constructed with arguments
	// outside their domain, such as Buffer with a size below one.
	ErrInvalidArgument = errors.New("rxz: invalid argument")
)

// panicError converts a recovered panic value into an error that matches
// ErrPanic with errors.Is and carries the stack of the recovery site.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return errors.Wrapf(ErrPanic, "%v", err)
	}
	return errors.Wrapf(ErrPanic, "%v", r)
}

// guard runs fn and reports a recovered panic as an error.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	fn()
	return nil
}

// isNil reports whether v is a nil interface, pointer, map, channel or func.
// Nil slices are valid values.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
