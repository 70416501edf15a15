package rxz

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Timeout returns a cold Observable that emits v once after delay and then
// ends. Disposing the subscription before the delay elapses stops the timer;
// nothing is emitted. A nil clock uses RealClock.
//
// Example:
//
//	// Give up waiting for a reply after five seconds
//	reply := rxz.Choice(responses, rxz.Timeout(5*time.Second, Response{TimedOut: true}, nil))
func Timeout[T any](delay time.Duration, v T, clock Clock) Observable[T] {
	clock = clockOrReal(clock)
	return newObservable(Cold, false, func(_ context.Context, sub Subscriber[T]) Disposable {
		timer := clock.NewTimer(delay)
		quit := make(chan struct{})
		go func() {
			select {
			case <-timer.C():
				sub.OnValue(v)
				sub.OnEnd()
			case <-quit:
			}
		}()
		return NewDisposable(func() {
			close(quit)
			timer.Stop()
		})
	})
}

// Interval returns an Observable that emits 0, 1, 2, ... once every period
// and never ends. Each subscription runs its own counter. A nil clock uses
// RealClock; a period that is not positive fails with ErrInvalidArgument.
func Interval(period time.Duration, clock Clock) Observable[int] {
	if period <= 0 {
		return Throw[int](errors.Wrapf(ErrInvalidArgument, "interval period %v", period))
	}
	clock = clockOrReal(clock)
	return newObservable(Cold, false, func(_ context.Context, sub Subscriber[int]) Disposable {
		t := startTicker(clock, period, sub.OnValue)
		return NewDisposable(t.stop)
	})
}

// ticker calls fn with an increasing counter on its own goroutine once every
// period. Calls never overlap.
type ticker struct {
	ticks Ticker
	quit  chan struct{}
	once  sync.Once
}

func startTicker(clock Clock, period time.Duration, fn func(int)) *ticker {
	t := &ticker{ticks: clock.NewTicker(period), quit: make(chan struct{})}
	go t.run(fn)
	return t
}

func (t *ticker) run(fn func(int)) {
	for n := 0; ; n++ {
		select {
		case <-t.quit:
			return
		case <-t.ticks.C():
		}
		// A tick and a stop may be ready together.
		select {
		case <-t.quit:
			return
		default:
		}
		fn(n)
	}
}

func (t *ticker) stop() {
	t.once.Do(func() {
		close(t.quit)
		t.ticks.Stop()
	})
}
