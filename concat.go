package rxz

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Concat subscribes to the sources strictly one after another: the next
// source is subscribed only after the previous one ended, so the values of
// each source stay together and in declaration order. An error terminates the
// result at once and the remaining sources are never subscribed. Synchronous
// sources are chained in a loop, not by recursion, so long chains do not grow
// the stack.
//
// Example:
//
//	// Replay history, then follow live updates
//	feed := rxz.Concat(rxz.FromSlice(history), live)
func Concat[T any](srcs ...Observable[T]) Observable[T] {
	return newObservable(combinedMode(srcs), false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		c := &concatenator[T]{ctx: ctx, srcs: srcs, out: sub}
		c.advance()
		return NewDisposable(c.dispose)
	})
}

type concatenator[T any] struct {
	ctx     context.Context
	out     Subscriber[T]
	current *slot
	srcs    []Observable[T]
	index   int
	wip     atomic.Int32
	mu      sync.Mutex
	done    bool
}

// advance subscribes to the next source. A source ending inside its own
// Subscribe call bumps wip and the loop picks up the next one.
func (c *concatenator[T]) advance() {
	if c.wip.Inc() != 1 {
		return
	}
	for {
		c.mu.Lock()
		switch {
		case c.done || c.ctx.Err() != nil:
			c.mu.Unlock()
		case c.index == len(c.srcs):
			c.done = true
			c.mu.Unlock()
			c.out.OnEnd()
		default:
			src := c.srcs[c.index]
			c.index++
			cur := &slot{}
			c.current = cur
			c.mu.Unlock()
			cur.Set(src.subscribe(c.ctx, concatInput[T]{c}))
		}

		if c.wip.Dec() == 0 {
			return
		}
	}
}

func (c *concatenator[T]) fail(err error) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.mu.Unlock()
	c.out.OnError(err)
}

func (c *concatenator[T]) dispose() {
	c.mu.Lock()
	c.done = true
	cur := c.current
	c.current = nil
	c.mu.Unlock()
	if cur != nil {
		cur.Dispose()
	}
}

type concatInput[T any] struct {
	c *concatenator[T]
}

func (in concatInput[T]) OnValue(v T)       { in.c.out.OnValue(v) }
func (in concatInput[T]) OnError(err error) { in.c.fail(err) }
func (in concatInput[T]) OnEnd()            { in.c.advance() }
