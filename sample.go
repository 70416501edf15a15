package rxz

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Sample emits the most recent value of src once every period, skipping
// periods in which no new value arrived. A value still unsampled when
// upstream ends is discarded. A nil clock uses RealClock; a period that is not
// positive fails with ErrInvalidArgument.
//
// When to use:
//   - Rendering fast-changing state at a fixed refresh rate
//   - Periodic snapshots of sensor readings
//
// Example:
//
//	// Report the latest progress once per second
//	progress := rxz.Sample(updates, time.Second, nil)
func Sample[T any](src Observable[T], period time.Duration, clock Clock) Observable[T] {
	if period <= 0 {
		return Throw[T](errors.Wrapf(ErrInvalidArgument, "sample period %v", period))
	}
	clock = clockOrReal(clock)
	return newObservable(src.mode, false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		s := &sampler[T]{out: newSerializer(sub)}
		s.ticks = startTicker(clock, period, func(int) { s.tick() })
		up := src.subscribe(ctx, s)
		return NewDisposable(func() {
			s.ticks.stop()
			up.Dispose()
		})
	})
}

type sampler[T any] struct {
	out    *serializer[T]
	ticks  *ticker
	latest T
	mu     sync.Mutex
	has    bool
}

func (s *sampler[T]) OnValue(v T) {
	s.mu.Lock()
	s.latest = v
	s.has = true
	s.mu.Unlock()
}

func (s *sampler[T]) tick() {
	s.mu.Lock()
	if !s.has {
		s.mu.Unlock()
		return
	}
	v := s.latest
	s.has = false
	s.mu.Unlock()
	s.out.next(v)
}

func (s *sampler[T]) OnError(err error) {
	s.ticks.stop()
	s.out.fail(err)
}

func (s *sampler[T]) OnEnd() {
	s.ticks.stop()
	s.out.end()
}

// SampleRate keeps each value independently with probability rate, between
// 0.0 and 1.0. It uses cryptographically secure randomness so the selection
// is unbiased.
//
// When to use:
//   - Reducing data volume for analysis or monitoring
//   - Trace sampling in observability pipelines
//
// Example:
//
//	// Analyse about 10% of events
//	sampled := rxz.SampleRate(events, 0.1)
func SampleRate[T any](src Observable[T], rate float64) Observable[T] {
	return Filter(src, func(T) bool {
		return shouldSample(rate)
	})
}

func shouldSample(rate float64) bool {
	return randomFraction() < rate
}

// randomFraction returns a uniform value in [0, 1), or 1 when the random
// source fails.
func randomFraction() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 1
	}
	// 53 bits fill the float64 mantissa.
	val := binary.BigEndian.Uint64(b[:]) >> 11
	return float64(val) / (1 << 53)
}
