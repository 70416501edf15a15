package rxz

import (
	"context"
)

// Zip pairs the k-th value of every source into one slice, ordered like srcs,
// emitted once all sources have produced their k-th value. The result ends as
// soon as a source that has ended has no buffered values left, since no further
// slice can be formed; unpaired values of the other sources are discarded and
// their subscriptions disposed. The first error terminates the result.
//
// Example:
//
//	// Pair requests with their responses by position
//	pairs := rxz.Zip(requests, responses)
func Zip[T any](srcs ...Observable[T]) Observable[[]T] {
	return newObservable(combinedMode(srcs), false, func(ctx context.Context, sub Subscriber[[]T]) Disposable {
		if len(srcs) == 0 {
			sub.OnEnd()
			return Disposed
		}
		z := &zipper[T]{
			dst:    sub,
			queues: make([][]T, len(srcs)),
			ended:  make([]bool, len(srcs)),
			subs:   NewCompositeDisposable(),
		}
		events := newSerializer[zipEvent[T]](z)
		for i, src := range srcs {
			if events.terminated() || ctx.Err() != nil {
				break
			}
			z.subs.Add(src.subscribe(ctx, zipInput[T]{index: i, events: events}))
		}
		return z.subs
	})
}

type zipEvent[T any] struct {
	value T
	index int
	end   bool
}

type zipInput[T any] struct {
	events *serializer[zipEvent[T]]
	index  int
}

func (in zipInput[T]) OnValue(v T)       { in.events.next(zipEvent[T]{index: in.index, value: v}) }
func (in zipInput[T]) OnError(err error) { in.events.fail(err) }
func (in zipInput[T]) OnEnd()            { in.events.next(zipEvent[T]{index: in.index, end: true}) }

// zipper runs inside the event serializer, one event at a time.
type zipper[T any] struct {
	dst      Subscriber[[]T]
	subs     *CompositeDisposable
	queues   [][]T
	ended    []bool
	finished bool
}

func (z *zipper[T]) OnValue(e zipEvent[T]) {
	if z.finished {
		return
	}
	if e.end {
		z.ended[e.index] = true
	} else {
		z.queues[e.index] = append(z.queues[e.index], e.value)
	}

	for z.ready() {
		tuple := make([]T, len(z.queues))
		for i, q := range z.queues {
			tuple[i] = q[0]
			var zero T
			q[0] = zero
			z.queues[i] = q[1:]
		}
		z.dst.OnValue(tuple)
	}

	for i, ended := range z.ended {
		if ended && len(z.queues[i]) == 0 {
			z.finished = true
			z.subs.Dispose()
			z.dst.OnEnd()
			return
		}
	}
}

func (z *zipper[T]) ready() bool {
	for _, q := range z.queues {
		if len(q) == 0 {
			return false
		}
	}
	return true
}

func (z *zipper[T]) OnError(err error) {
	if z.finished {
		return
	}
	z.finished = true
	z.subs.Dispose()
	z.dst.OnError(err)
}

func (z *zipper[T]) OnEnd() {}
