package rxz

import (
	"context"

	"go.uber.org/atomic"
)

// Merge subscribes to every source at once and interleaves their values in
// arrival order. Deliveries are serialized, so downstream callbacks never
// overlap even when sources emit from different goroutines. The result ends
// once every source has ended; the first error terminates it and disposes all
// sources still running.
//
// When to use:
//   - Aggregating data from multiple sources
//   - Collecting results from parallel workers
//   - Merging event streams from different services
//
// Example:
//
//	// Combine event streams from different services
//	all := rxz.Merge(serviceA.Events(), serviceB.Events(), serviceC.Events())
//	all.Subscribe(handleEvent, func(err error) {
//		log.Printf("event stream failed: %v", err)
//	}, nil)
func Merge[T any](srcs ...Observable[T]) Observable[T] {
	return newObservable(combinedMode(srcs), false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		if len(srcs) == 0 {
			sub.OnEnd()
			return Disposed
		}
		m := &merger[T]{out: newSerializer(sub), subs: NewCompositeDisposable()}
		m.remaining.Store(int32(len(srcs)))
		for _, src := range srcs {
			if m.out.terminated() || ctx.Err() != nil {
				break
			}
			m.subs.Add(src.subscribe(ctx, mergeInput[T]{m}))
		}
		return m.subs
	})
}

type merger[T any] struct {
	out       *serializer[T]
	subs      *CompositeDisposable
	remaining atomic.Int32
}

type mergeInput[T any] struct {
	m *merger[T]
}

func (in mergeInput[T]) OnValue(v T) { in.m.out.next(v) }

func (in mergeInput[T]) OnError(err error) {
	in.m.subs.Dispose()
	in.m.out.fail(err)
}

func (in mergeInput[T]) OnEnd() {
	if in.m.remaining.Dec() == 0 {
		in.m.out.end()
	}
}

// combinedMode is Hot when any source is hot.
func combinedMode[T any](srcs []Observable[T]) Mode {
	for _, src := range srcs {
		if src.mode == Hot {
			return Hot
		}
	}
	return Cold
}
