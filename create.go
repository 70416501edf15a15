package rxz

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Sink receives the signals of a producer built with Create or Generate.
type Sink[T any] func(Signal[T])

// Create builds a cold Observable from a factory. The factory runs once per
// subscription, pushes signals into sink and may return a cleanup function,
// which runs exactly once when the subscription is disposed or terminates.
//
// Sink semantics:
//   - Next(v) delivers v; a nil pointer, map, channel, func or interface value
//     terminates the stream with ErrInvalidValue instead
//   - EndWith(v) delivers v and then ends the stream
//   - End() ends the stream
//   - Error(err) terminates the stream with err (ErrInvalidValue if err is nil)
//
// Signals sent after termination or disposal are ignored. The sink must not be
// called concurrently. A panic in the factory terminates the stream with an
// error matching ErrPanic.
//
// Example:
//
//	lines := rxz.Create(func(sink rxz.Sink[string]) func() {
//		scanner := bufio.NewScanner(r)
//		for scanner.Scan() {
//			sink(rxz.Next(scanner.Text()))
//		}
//		if err := scanner.Err(); err != nil {
//			sink(rxz.Error[string](err))
//			return nil
//		}
//		sink(rxz.End[string]())
//		return nil
//	})
func Create[T any](factory func(sink Sink[T]) func()) Observable[T] {
	return newObservable(Cold, false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		var closed atomic.Bool
		sink := func(sig Signal[T]) {
			if closed.Load() || ctx.Err() != nil {
				return
			}
			sig = validate(sig)
			if sig.IsTerminal() && !closed.CompareAndSwap(false, true) {
				return
			}
			sig.dispatch(sub)
		}

		var cleanup func()
		if err := guard(func() { cleanup = factory(sink) }); err != nil {
			sink(Error[T](err))
		}
		if cleanup == nil {
			return Disposed
		}
		return NewDisposable(cleanup)
	})
}

// validate turns invalid signals into ErrInvalidValue errors.
func validate[T any](sig Signal[T]) Signal[T] {
	switch sig.kind {
	case KindNext, KindEndWith:
		if isNil(any(sig.value)) {
			return Error[T](ErrInvalidValue)
		}
	case KindError:
		if sig.err == nil {
			return Error[T](ErrInvalidValue)
		}
	}
	return sig
}

// Generate builds a cold, demand-aware Observable. factory is invoked once per
// unit of downstream demand with the current state; it must call sink exactly
// once and returns the state for the next invocation. dispose, when not nil,
// receives the last state once the subscription is cancelled or terminates.
//
// A factory that returns without calling sink terminates the stream with
// ErrGenerateContract; additional sink calls within one invocation are ignored.
//
// Example:
//
//	// Fibonacci numbers, produced only as fast as they are requested.
//	fib := rxz.Generate(func(s [2]int, sink rxz.Sink[int]) [2]int {
//		sink(rxz.Next(s[0]))
//		return [2]int{s[1], s[0] + s[1]}
//	}, [2]int{0, 1}, nil)
func Generate[T, S any](factory func(state S, sink Sink[T]) S, initial S, dispose func(S)) Observable[T] {
	return newObservable(Cold, true, func(ctx context.Context, sub Subscriber[T]) Disposable {
		g := &generator[T, S]{
			ctx:     ctx,
			sub:     sub,
			factory: factory,
			state:   initial,
			dispose: dispose,
		}
		if in, ok := sub.(initializer); ok {
			in.OnInit(g)
		} else {
			g.Request(Unbounded)
		}
		return NewDisposable(g.finish)
	})
}

type generator[T, S any] struct {
	ctx       context.Context
	sub       Subscriber[T]
	factory   func(S, Sink[T]) S
	dispose   func(S)
	state     S
	requested int64
	mu        sync.Mutex
	emitting  bool
	done      bool
	disposed  bool
}

func (g *generator[T, S]) Request(n int64) {
	if n <= 0 {
		return
	}
	g.mu.Lock()
	g.requested = addDemand(g.requested, n)
	if g.emitting || g.done {
		g.mu.Unlock()
		return
	}
	g.emitting = true
	g.mu.Unlock()

	g.drain()
}

func (g *generator[T, S]) Cancel() {
	g.mu.Lock()
	g.done = true
	g.mu.Unlock()
}

func (g *generator[T, S]) drain() {
	for {
		g.mu.Lock()
		if g.done || g.requested == 0 || g.ctx.Err() != nil {
			g.emitting = false
			g.mu.Unlock()
			return
		}
		if g.requested != Unbounded {
			g.requested--
		}
		state := g.state
		g.mu.Unlock()

		g.step(state)
	}
}

func (g *generator[T, S]) step(state S) {
	var sig Signal[T]
	calls := 0
	sink := func(s Signal[T]) {
		calls++
		if calls == 1 {
			sig = s
		}
	}

	var next S
	if err := guard(func() { next = g.factory(state, sink) }); err != nil {
		g.terminate(Error[T](err))
		return
	}
	if calls == 0 {
		g.terminate(Error[T](ErrGenerateContract))
		return
	}

	g.mu.Lock()
	g.state = next
	g.mu.Unlock()

	sig = validate(sig)
	if sig.IsTerminal() {
		g.terminate(sig)
		return
	}
	g.sub.OnValue(sig.value)
}

func (g *generator[T, S]) terminate(sig Signal[T]) {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		return
	}
	g.done = true
	g.mu.Unlock()
	sig.dispatch(g.sub)
}

func (g *generator[T, S]) finish() {
	g.mu.Lock()
	g.done = true
	if g.disposed {
		g.mu.Unlock()
		return
	}
	g.disposed = true
	state := g.state
	g.mu.Unlock()

	if g.dispose != nil {
		g.dispose(state)
	}
}

// addDemand adds n to the outstanding demand, saturating at Unbounded.
func addDemand(current, n int64) int64 {
	if current == Unbounded || n >= Unbounded-current {
		return Unbounded
	}
	return current + n
}
