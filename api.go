// Package rxz provides type-safe, composable reactive streams for Go: push-based
// sequences of values that end successfully or with an error, transformed and
// combined with the same vocabulary used for ordinary sequences (map, filter,
// reduce, merge, zip).
//
// The core abstraction is the Observable, a re-subscribable wrapper around a
// Source. Subscribing drives the whole chain synchronously on the caller's
// goroutine and returns a Disposable that cancels the subscription.
//
// Basic usage:
//
//	numbers := rxz.Range(10)
//	evens := rxz.Filter(numbers, func(n int) bool { return n%2 == 0 })
//	squares := rxz.Map(evens, func(n int) int { return n * n })
//
//	d := squares.Subscribe(
//		func(n int) { fmt.Println(n) },
//		func(err error) { log.Printf("stream failed: %v", err) },
//		func() { fmt.Println("done") },
//	)
//	defer d.Dispose()
//
// The package provides:
//   - Sources: FromSlice, Of, Range, Create, Generate, Timeout, Interval, FromChannel
//   - Operators: Map, Filter, FlatMap, Skip, Take, Slice, Reduce, Scan, Buffer
//   - Combinators: Merge, Concat, Zip, Choice
//   - Subject: a hot, manually pushed broadcast hub
//   - Backpressure: ToFlowable with buffer, error, drop and latest strategies
//   - Time: Debounce, Throttle, Sample, Batch, Dedupe, Retry and Monitor over a Clock
//   - Bridges: Share, Split, ToChannel, Collect, FromWatchable
//
// File system sources live in the fswatch subpackage; test helpers in
// rxz/testing.
package rxz

import (
	"context"
)

// Subscriber is the consumer contract an Observable pushes into.
// After OnError or OnEnd has been called no further callback fires on the
// same subscription; the engine enforces this for every subscriber it is given.
type Subscriber[T any] interface {
	// OnValue receives the next value of the stream.
	OnValue(value T)

	// OnError receives the terminal error of the stream.
	OnError(err error)

	// OnEnd signals successful completion of the stream.
	OnEnd()
}

// Controller lets a demand-aware subscriber regulate its upstream.
type Controller interface {
	// Request asks for n more values. Non-positive values are ignored.
	Request(n int64)

	// Cancel silently unsubscribes. No terminal callback follows.
	Cancel()
}

// DemandSubscriber is a Subscriber that takes part in backpressure.
// OnInit is called once, before any value is delivered.
type DemandSubscriber[T any] interface {
	Subscriber[T]
	initializer
}

type initializer interface {
	OnInit(c Controller)
}

// Source is the producer contract. Subscribe starts pushing values into sub and
// returns a Disposable that stops production. The context is cancelled once the
// subscription is disposed or has terminated; synchronous producers poll it to
// stop early.
type Source[T any] interface {
	Subscribe(ctx context.Context, sub Subscriber[T]) Disposable
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func(ctx context.Context, sub Subscriber[T]) Disposable

// Subscribe calls f(ctx, sub).
func (f SourceFunc[T]) Subscribe(ctx context.Context, sub Subscriber[T]) Disposable {
	return f(ctx, sub)
}

// Mode tags an Observable as cold or hot.
type Mode int

const (
	// Cold observables re-run their source for every subscription.
	Cold Mode = iota
	// Hot observables share one production run among all subscribers; a
	// subscriber only sees events emitted after it joined.
	Hot
)

func (m Mode) String() string {
	if m == Hot {
		return "hot"
	}
	return "cold"
}

// Observer adapts three callbacks to the Subscriber interface.
// Nil callbacks are skipped, except OnErrorFunc: a nil error callback logs the
// error instead of discarding it.
type Observer[T any] struct {
	OnValueFunc func(T)
	OnErrorFunc func(error)
	OnEndFunc   func()
}

// OnValue implements Subscriber.
func (o Observer[T]) OnValue(value T) {
	if o.OnValueFunc != nil {
		o.OnValueFunc(value)
	}
}

// OnError implements Subscriber.
func (o Observer[T]) OnError(err error) {
	if o.OnErrorFunc != nil {
		o.OnErrorFunc(err)
		return
	}
	logUnhandled(err)
}

// OnEnd implements Subscriber.
func (o Observer[T]) OnEnd() {
	if o.OnEndFunc != nil {
		o.OnEndFunc()
	}
}
