package rxz

import "fmt"

// Accumulator combines the running state with the next value of a stream and
// returns the new state.
type Accumulator[T, A any] func(acc A, value T) A

// Reduce folds the whole stream into a single value. Nothing is emitted until
// upstream ends; then the final accumulation is emitted followed by the end of
// the stream. An upstream that ends without values yields seed. Errors are
// forwarded unchanged and nothing is emitted for them.
//
// When to use:
//   - Totals, counts and other statistics over finite streams
//   - Collecting a stream into a single structure
//
// Example:
//
//	// Total order value
//	total := rxz.Reduce(amounts, rxz.Sum[float64](), 0)
//
//	// Collect into a map
//	byID := rxz.Reduce(users, func(m map[string]User, u User) map[string]User {
//		m[u.ID] = u
//		return m
//	}, map[string]User{})
func Reduce[T, A any](src Observable[T], fn Accumulator[T, A], seed A) Observable[A] {
	return lift(src, func(dst Subscriber[A], stop Disposable) Subscriber[T] {
		return &reducer[T, A]{dst: dst, stop: stop, fn: fn, acc: seed}
	})
}

type reducer[T, A any] struct {
	dst  Subscriber[A]
	stop Disposable
	fn   Accumulator[T, A]
	acc  A
	demand
	failed bool
}

func (r *reducer[T, A]) OnInit(c Controller) { r.init(c, r.dst) }

func (r *reducer[T, A]) OnValue(v T) {
	if r.failed {
		return
	}
	if err := guard(func() { r.acc = r.fn(r.acc, v) }); err != nil {
		r.failed = true
		r.stop.Dispose()
		r.dst.OnError(err)
		return
	}
	r.replenish()
}

func (r *reducer[T, A]) OnError(err error) { r.dst.OnError(err) }

func (r *reducer[T, A]) OnEnd() {
	r.dst.OnValue(r.acc)
	r.dst.OnEnd()
}

// Scan emits the running accumulation after every upstream value, one output
// per input, starting from seed.
//
// Example:
//
//	// Running balance
//	balance := rxz.Scan(transactions, func(b int, tx Transaction) int {
//		return b + tx.Delta
//	}, 0)
func Scan[T, A any](src Observable[T], fn Accumulator[T, A], seed A) Observable[A] {
	return lift(src, func(dst Subscriber[A], stop Disposable) Subscriber[T] {
		return &scanner[T, A]{dst: dst, stop: stop, fn: fn, acc: seed}
	})
}

type scanner[T, A any] struct {
	dst  Subscriber[A]
	stop Disposable
	fn   Accumulator[T, A]
	acc  A
	demand
	failed bool
}

func (s *scanner[T, A]) OnInit(c Controller) { s.init(c, s.dst) }

func (s *scanner[T, A]) OnValue(v T) {
	if s.failed {
		return
	}
	if err := guard(func() { s.acc = s.fn(s.acc, v) }); err != nil {
		s.failed = true
		s.stop.Dispose()
		s.dst.OnError(err)
		return
	}
	s.dst.OnValue(s.acc)
}

func (s *scanner[T, A]) OnError(err error) { s.dst.OnError(err) }
func (s *scanner[T, A]) OnEnd()            { s.dst.OnEnd() }

// Common accumulators

// Sum returns an accumulator that sums numeric values.
func Sum[T ~int | ~int32 | ~int64 | ~float32 | ~float64]() Accumulator[T, T] {
	return func(sum, v T) T {
		return sum + v
	}
}

// Count returns an accumulator that counts values.
func Count[T any]() Accumulator[T, int] {
	return func(count int, _ T) int {
		return count + 1
	}
}

// Average maintains a running average.
type Average struct {
	Sum   float64
	Count int
}

// Avg returns an accumulator that computes the average of numeric values.
func Avg[T ~int | ~int32 | ~int64 | ~float32 | ~float64]() Accumulator[T, Average] {
	return func(avg Average, v T) Average {
		avg.Sum += float64(v)
		avg.Count++
		return avg
	}
}

// Value returns the computed average.
func (a Average) Value() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// MinMax tracks minimum and maximum values.
type MinMax[T comparable] struct {
	Min   T
	Max   T
	Count int
}

// MinMaxOf returns an accumulator that tracks min and max values.
func MinMaxOf[T ~int | ~int32 | ~int64 | ~float32 | ~float64]() Accumulator[T, MinMax[T]] {
	return func(mm MinMax[T], v T) MinMax[T] {
		if mm.Count == 0 {
			return MinMax[T]{Min: v, Max: v, Count: 1}
		}
		if v < mm.Min {
			mm.Min = v
		}
		if v > mm.Max {
			mm.Max = v
		}
		mm.Count++
		return mm
	}
}

// String returns a string representation of the min/max values.
func (mm MinMax[T]) String() string {
	return fmt.Sprintf("Min: %v, Max: %v, Count: %d", mm.Min, mm.Max, mm.Count)
}
