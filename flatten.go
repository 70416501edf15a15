package rxz

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Flatten turns a stream of streams into one stream. Inner observables are
// subscribed one at a time, in the order the outer stream delivered them: the
// next queued inner starts only after the current one has ended, so the values
// of each inner stay together. The result ends once the outer stream and every
// inner stream have ended. An error from the outer stream or any inner stream
// terminates the result and disposes everything still running.
//
// When to use:
//   - Unpacking paged results where each page is itself a stream
//   - Sequencing follow-up work triggered by each incoming event
//   - Expanding grouped data for individual processing
//
// Example:
//
//	// Stream the records of every file, file by file
//	records := rxz.Flatten(rxz.Map(files, func(name string) rxz.Observable[Record] {
//		return readRecords(name)
//	}))
func Flatten[T any](src Observable[Observable[T]]) Observable[T] {
	return newObservable(src.mode, false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		f := &flattener[T]{ctx: ctx, out: newSerializer(sub)}
		f.outer.Set(src.subscribe(ctx, outerFlattener[T]{f}))
		return NewDisposable(f.dispose)
	})
}

// FlatMap maps every value to an observable with fn and flattens the results
// in arrival order. It is Flatten(Map(src, fn)).
func FlatMap[T, R any](src Observable[T], fn func(T) Observable[R]) Observable[R] {
	return Flatten(Map(src, fn))
}

type flattener[T any] struct {
	ctx       context.Context
	out       *serializer[T]
	outer     slot
	current   *slot
	queue     []Observable[T]
	wip       atomic.Int32
	mu        sync.Mutex
	active    bool
	outerDone bool
	done      bool
}

func (f *flattener[T]) enqueue(inner Observable[T]) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.queue = append(f.queue, inner)
	f.mu.Unlock()
	f.drain()
}

func (f *flattener[T]) outerEnd() {
	f.mu.Lock()
	f.outerDone = true
	f.mu.Unlock()
	f.drain()
}

func (f *flattener[T]) innerEnd() {
	f.mu.Lock()
	f.active = false
	f.mu.Unlock()
	f.drain()
}

func (f *flattener[T]) fail(err error) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.queue = nil
	f.mu.Unlock()

	f.dispose()
	f.out.fail(err)
}

// drain starts queued inners. Only one goroutine runs the loop at a time;
// inners that end synchronously inside Subscribe bump wip and are picked up by
// the next iteration instead of recursing.
func (f *flattener[T]) drain() {
	if f.wip.Inc() != 1 {
		return
	}
	for {
		f.mu.Lock()
		switch {
		case f.done || f.active:
			f.mu.Unlock()
		case len(f.queue) > 0:
			next := f.queue[0]
			f.queue[0] = Observable[T]{}
			f.queue = f.queue[1:]
			f.active = true
			cur := &slot{}
			f.current = cur
			f.mu.Unlock()
			cur.Set(next.subscribe(f.ctx, innerFlattener[T]{f}))
		case f.outerDone:
			f.done = true
			f.mu.Unlock()
			f.out.end()
		default:
			f.mu.Unlock()
		}

		if f.wip.Dec() == 0 {
			return
		}
	}
}

func (f *flattener[T]) dispose() {
	f.mu.Lock()
	f.done = true
	cur := f.current
	f.current = nil
	f.mu.Unlock()

	f.outer.Dispose()
	if cur != nil {
		cur.Dispose()
	}
}

type outerFlattener[T any] struct {
	f *flattener[T]
}

func (o outerFlattener[T]) OnValue(inner Observable[T]) { o.f.enqueue(inner) }
func (o outerFlattener[T]) OnError(err error)           { o.f.fail(err) }
func (o outerFlattener[T]) OnEnd()                      { o.f.outerEnd() }

type innerFlattener[T any] struct {
	f *flattener[T]
}

func (i innerFlattener[T]) OnValue(v T)       { i.f.out.next(v) }
func (i innerFlattener[T]) OnError(err error) { i.f.fail(err) }
func (i innerFlattener[T]) OnEnd()            { i.f.innerEnd() }
