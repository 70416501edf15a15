package rxz

import (
	"context"

	"go.uber.org/atomic"
)

// Choice races the sources. They are subscribed in order; the first one to
// deliver any event, value or termination, wins and its whole stream is
// forwarded. All other sources are disposed the moment the winner is known,
// and sources not yet subscribed by then are never subscribed. Ties are
// broken by whichever event is observed first, not by declaration order.
//
// Example:
//
//	// Use whichever replica answers first
//	answer := rxz.Choice(query(primary), query(replica))
func Choice[T any](srcs ...Observable[T]) Observable[T] {
	return newObservable(combinedMode(srcs), false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		if len(srcs) == 0 {
			sub.OnEnd()
			return Disposed
		}
		r := &race[T]{dst: sub, slots: make([]*slot, len(srcs))}
		r.winner.Store(-1)
		for i := range r.slots {
			r.slots[i] = &slot{}
		}
		for i, src := range srcs {
			if r.winner.Load() >= 0 || ctx.Err() != nil {
				break
			}
			r.slots[i].Set(src.subscribe(ctx, raceInput[T]{r: r, index: i}))
		}
		return NewDisposable(r.dispose)
	})
}

type race[T any] struct {
	dst    Subscriber[T]
	slots  []*slot
	winner atomic.Int32
}

// claim reports whether index may forward events, settling the race on its
// first call.
func (r *race[T]) claim(index int) bool {
	if r.winner.CompareAndSwap(-1, int32(index)) {
		for i, s := range r.slots {
			if i != index {
				s.Dispose()
			}
		}
		return true
	}
	return r.winner.Load() == int32(index)
}

func (r *race[T]) dispose() {
	for _, s := range r.slots {
		s.Dispose()
	}
}

type raceInput[T any] struct {
	r     *race[T]
	index int
}

func (in raceInput[T]) OnValue(v T) {
	if in.r.claim(in.index) {
		in.r.dst.OnValue(v)
	}
}

func (in raceInput[T]) OnError(err error) {
	if in.r.claim(in.index) {
		in.r.dst.OnError(err)
	}
}

func (in raceInput[T]) OnEnd() {
	if in.r.claim(in.index) {
		in.r.dst.OnEnd()
	}
}
