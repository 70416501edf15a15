package rxz

import (
	"time"
)

// Throttle passes a value, then drops every value that arrives within d of
// it. The first value after the quiet window passes again. Timing is read
// from clock; a nil clock uses RealClock.
//
// When to use:
//   - Prevent overwhelming downstream services
//   - Ignore repeated clicks or keystrokes
//   - Smooth out traffic spikes
//
// Example:
//
//	// At most one refresh per second
//	refreshes := rxz.Throttle(changes, time.Second, nil)
func Throttle[T any](src Observable[T], d time.Duration, clock Clock) Observable[T] {
	clock = clockOrReal(clock)
	return lift(src, func(dst Subscriber[T], _ Disposable) Subscriber[T] {
		return &throttle[T]{dst: dst, clock: clock, window: d}
	})
}

type throttle[T any] struct {
	dst    Subscriber[T]
	clock  Clock
	last   time.Time
	window time.Duration
	demand
	passed bool
}

func (t *throttle[T]) OnInit(c Controller) { t.init(c, t.dst) }

func (t *throttle[T]) OnValue(v T) {
	now := t.clock.Now()
	if t.passed && now.Sub(t.last) < t.window {
		t.replenish()
		return
	}
	t.passed = true
	t.last = now
	t.dst.OnValue(v)
}

func (t *throttle[T]) OnError(err error) { t.dst.OnError(err) }
func (t *throttle[T]) OnEnd()            { t.dst.OnEnd() }
