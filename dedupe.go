package rxz

import (
	"time"
)

// Distinct drops every value whose key was already seen on this subscription.
// Keys are remembered for the lifetime of the subscription, so memory grows
// with the number of distinct keys; use Dedupe to bound it.
//
// Example:
//
//	// First event per user
//	firsts := rxz.Distinct(events, func(e Event) string {
//		return e.UserID
//	})
func Distinct[T any, K comparable](src Observable[T], key func(T) K) Observable[T] {
	return lift(src, func(dst Subscriber[T], stop Disposable) Subscriber[T] {
		seen := make(map[K]struct{})
		return &keyFilter[T, K]{dst: dst, stop: stop, key: key, admit: func(k K) bool {
			if _, ok := seen[k]; ok {
				return false
			}
			seen[k] = struct{}{}
			return true
		}}
	})
}

// DistinctUntilChanged drops values whose key equals the key of the value
// right before them.
//
// Example:
//
//	// Only report state transitions
//	transitions := rxz.DistinctUntilChanged(states, func(s State) string {
//		return s.Phase
//	})
func DistinctUntilChanged[T any, K comparable](src Observable[T], key func(T) K) Observable[T] {
	return lift(src, func(dst Subscriber[T], stop Disposable) Subscriber[T] {
		var (
			last K
			has  bool
		)
		return &keyFilter[T, K]{dst: dst, stop: stop, key: key, admit: func(k K) bool {
			if has && k == last {
				return false
			}
			last, has = k, true
			return true
		}}
	})
}

// Dedupe removes duplicate values based on a key function, remembering each
// key for ttl after it was last admitted. A key seen again after its ttl
// expired passes again. Expired keys are pruned as values arrive, so memory is
// bounded by the keys seen within one ttl. A nil clock uses RealClock.
//
// When to use:
//   - Remove duplicate events or messages
//   - Implement idempotency in stream processing
//   - Prevent duplicate notifications
//
// Example:
//
//	// Deduplicate events by ID with 5-minute memory
//	unique := rxz.Dedupe(events, func(e Event) string {
//		return e.ID
//	}, 5*time.Minute, nil)
func Dedupe[T any, K comparable](src Observable[T], key func(T) K, ttl time.Duration, clock Clock) Observable[T] {
	clock = clockOrReal(clock)
	return lift(src, func(dst Subscriber[T], stop Disposable) Subscriber[T] {
		seen := make(map[K]time.Time)
		var lastPrune time.Time
		return &keyFilter[T, K]{dst: dst, stop: stop, key: key, admit: func(k K) bool {
			now := clock.Now()
			if now.Sub(lastPrune) > ttl/2 {
				for sk, at := range seen {
					if now.Sub(at) > ttl {
						delete(seen, sk)
					}
				}
				lastPrune = now
			}
			if at, ok := seen[k]; ok && now.Sub(at) <= ttl {
				return false
			}
			seen[k] = now
			return true
		}}
	})
}

// keyFilter admits values whose key passes admit.
type keyFilter[T any, K comparable] struct {
	dst   Subscriber[T]
	stop  Disposable
	key   func(T) K
	admit func(K) bool
	demand
	failed bool
}

func (f *keyFilter[T, K]) OnInit(c Controller) { f.init(c, f.dst) }

func (f *keyFilter[T, K]) OnValue(v T) {
	if f.failed {
		return
	}
	var k K
	if err := guard(func() { k = f.key(v) }); err != nil {
		f.failed = true
		f.stop.Dispose()
		f.dst.OnError(err)
		return
	}
	if !f.admit(k) {
		f.replenish()
		return
	}
	f.dst.OnValue(v)
}

func (f *keyFilter[T, K]) OnError(err error) { f.dst.OnError(err) }
func (f *keyFilter[T, K]) OnEnd()            { f.dst.OnEnd() }
