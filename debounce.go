package rxz

import (
	"context"
	"sync"
	"time"
)

// Debounce emits a value only after d has passed without a newer value.
// Only the last value of a rapid sequence is emitted. When upstream ends
// while a value is pending, that value is emitted before the end; on error the
// pending value is discarded. A nil clock uses RealClock.
//
// When to use:
//   - User input handling (e.g., search-as-you-type)
//   - Sensor readings that fluctuate rapidly
//   - File system change notifications
//
// Example:
//
//	// Only search after 300ms without typing
//	queries := rxz.Debounce(keystrokes, 300*time.Millisecond, nil)
//
//	// Reload configuration once a burst of file events has settled
//	reloads := rxz.Debounce(fswatch.Watch("config.yaml"), time.Second, nil)
func Debounce[T any](src Observable[T], d time.Duration, clock Clock) Observable[T] {
	clock = clockOrReal(clock)
	return newObservable(src.mode, false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		db := &debouncer[T]{out: newSerializer(sub), clock: clock, delay: d}
		up := src.subscribe(ctx, db)
		return NewDisposable(func() {
			db.stop()
			up.Dispose()
		})
	})
}

type debouncer[T any] struct {
	out     *serializer[T]
	clock   Clock
	timer   Timer
	pending T
	delay   time.Duration
	gen     uint64
	mu      sync.Mutex
	has     bool
}

func (d *debouncer[T]) OnValue(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = v
	d.has = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = afterFunc(d.clock, d.delay, func() { d.fire(gen) })
}

func (d *debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.has {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.clear()
	d.mu.Unlock()
	d.out.next(v)
}

func (d *debouncer[T]) OnError(err error) {
	d.stop()
	d.out.fail(err)
}

func (d *debouncer[T]) OnEnd() {
	d.mu.Lock()
	v, has := d.pending, d.has
	d.clear()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	if has {
		d.out.next(v)
	}
	d.out.end()
}

func (d *debouncer[T]) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clear()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *debouncer[T]) clear() {
	var zero T
	d.pending = zero
	d.has = false
}
