package rxz

import (
	"time"

	"github.com/zoobzio/clockz"
)

// Clock is the time source of Timeout, Interval and the time-based operators.
// Tests pass a clockz fake clock and advance it by hand.
type Clock = clockz.Clock

// Timer is a pending timer that can be stopped.
type Timer = clockz.Timer

// Ticker delivers ticks on a channel until stopped.
type Ticker = clockz.Ticker

// RealClock is the wall clock, used wherever a nil Clock is passed.
var RealClock Clock = clockz.RealClock

func clockOrReal(c Clock) Clock {
	if c == nil {
		return RealClock
	}
	return c
}

// afterFunc runs fn on its own goroutine once d has elapsed. A fake clock
// fires AfterFunc callbacks while holding its lock, so fn must never run
// inside the callback: anything that reaches the clock from there blocks.
func afterFunc(clock Clock, d time.Duration, fn func()) Timer {
	return clock.AfterFunc(d, func() { go fn() })
}
