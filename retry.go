package rxz

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// RetryConfig controls how Retry resubscribes after an error.
type RetryConfig struct {
	// MaxAttempts is the total number of subscriptions, the first one
	// included. Values below 1 disable retrying.
	MaxAttempts int

	// BaseDelay is the wait before the first resubscription. Every further
	// attempt doubles it. Zero resubscribes at once.
	BaseDelay time.Duration

	// MaxDelay caps the backoff. Zero leaves it uncapped.
	MaxDelay time.Duration

	// Jitter scales every delay by a random factor between 0.5 and 1.0.
	Jitter bool

	// ShouldRetry decides whether err, ending the given attempt (counted from
	// 1), is worth another subscription. Nil retries every error.
	ShouldRetry func(err error, attempt int) bool
}

// Retry resubscribes to src when it fails, up to config.MaxAttempts
// subscriptions in total, waiting an exponential backoff in between. Values
// of failed attempts have already been delivered; a cold src starts over on
// every attempt. The last error is forwarded unchanged once the attempts are
// used up or ShouldRetry declines. A nil clock uses RealClock.
//
// When to use:
//   - Sources backed by external services that fail transiently
//   - Reconnecting to feeds after a dropped connection
//
// Example:
//
//	// Up to five connection attempts: 100ms, 200ms, 400ms, 800ms apart
//	feed := rxz.Retry(connect(), rxz.RetryConfig{
//		MaxAttempts: 5,
//		BaseDelay:   100 * time.Millisecond,
//		Jitter:      true,
//		ShouldRetry: func(err error, _ int) bool {
//			return !errors.Is(err, ErrUnauthorized)
//		},
//	}, nil)
func Retry[T any](src Observable[T], config RetryConfig, clock Clock) Observable[T] {
	clock = clockOrReal(clock)
	return newObservable(src.mode, false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		r := &retrier[T]{ctx: ctx, src: src, out: sub, config: config, clock: clock}
		r.resubscribe()
		return NewDisposable(r.dispose)
	})
}

type retrier[T any] struct {
	ctx     context.Context
	src     Observable[T]
	out     Subscriber[T]
	clock   Clock
	current *slot
	timer   Timer
	config  RetryConfig
	attempt int
	wip     atomic.Int32
	mu      sync.Mutex
	done    bool
}

// resubscribe starts the next attempt. An attempt failing inside its own
// Subscribe call bumps wip and the loop starts the one after it.
func (r *retrier[T]) resubscribe() {
	if r.wip.Inc() != 1 {
		return
	}
	for {
		r.mu.Lock()
		if r.done || r.ctx.Err() != nil {
			r.mu.Unlock()
		} else {
			r.attempt++
			r.timer = nil
			cur := &slot{}
			r.current = cur
			r.mu.Unlock()
			cur.Set(r.src.subscribe(r.ctx, retryInput[T]{r}))
		}

		if r.wip.Dec() == 0 {
			return
		}
	}
}

func (r *retrier[T]) fail(err error) {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	attempt := r.attempt
	r.mu.Unlock()

	if attempt >= r.config.MaxAttempts || !r.shouldRetry(err, attempt) {
		r.finish(func() { r.out.OnError(err) })
		return
	}

	delay := r.config.backoff(attempt)
	if delay <= 0 {
		r.resubscribe()
		return
	}
	r.mu.Lock()
	if !r.done {
		r.timer = afterFunc(r.clock, delay, r.resubscribe)
	}
	r.mu.Unlock()
}

func (r *retrier[T]) shouldRetry(err error, attempt int) bool {
	if r.config.ShouldRetry == nil {
		return true
	}
	retry := false
	if perr := guard(func() { retry = r.config.ShouldRetry(err, attempt) }); perr != nil {
		return false
	}
	return retry
}

func (r *retrier[T]) finish(terminal func()) {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	r.done = true
	r.mu.Unlock()
	terminal()
}

func (r *retrier[T]) dispose() {
	r.mu.Lock()
	r.done = true
	cur, timer := r.current, r.timer
	r.current, r.timer = nil, nil
	r.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
	if cur != nil {
		cur.Dispose()
	}
}

// backoff returns the wait after the given failed attempt.
func (c RetryConfig) backoff(attempt int) time.Duration {
	if c.BaseDelay <= 0 {
		return 0
	}
	delay := float64(c.BaseDelay) * math.Pow(2, float64(attempt-1))
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	if c.Jitter {
		delay *= 0.5 + randomFraction()/2
	}
	if delay >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}

type retryInput[T any] struct {
	r *retrier[T]
}

func (in retryInput[T]) OnValue(v T)       { in.r.out.OnValue(v) }
func (in retryInput[T]) OnError(err error) { in.r.fail(err) }
func (in retryInput[T]) OnEnd()            { in.r.finish(in.r.out.OnEnd) }
