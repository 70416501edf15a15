package rxz

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// StreamStats contains statistics about values flowing through a monitored
// stream.
type StreamStats struct {
	// LastUpdate is the timestamp of this statistics snapshot.
	LastUpdate time.Time
	// Count is the number of values seen since the last report.
	Count int64
	// Rate is the average values per second since the last report.
	Rate float64
}

// Monitor passes src through unchanged and reports throughput statistics to
// onStats every interval, plus a final report when the stream terminates.
// Reports never overlap. A panicking onStats is logged and ignored. A nil
// clock uses RealClock; an interval that is not positive leaves only the
// final report.
//
// When to use:
//   - Production monitoring and alerting
//   - Identifying bottlenecks in pipelines
//   - Capacity planning
//
// Example:
//
//	// Report throughput every second
//	monitored := rxz.Monitor(events, time.Second, nil, func(stats rxz.StreamStats) {
//		log.Printf("rate: %.2f values/sec (count: %d)", stats.Rate, stats.Count)
//	})
func Monitor[T any](src Observable[T], interval time.Duration, clock Clock, onStats func(StreamStats)) Observable[T] {
	clock = clockOrReal(clock)
	return newObservable(src.mode, src.flowable, func(ctx context.Context, dst Subscriber[T]) Disposable {
		m := &monitor[T]{dst: dst, clock: clock, onStats: onStats, last: clock.Now()}
		if interval > 0 {
			m.ticks = startTicker(clock, interval, func(int) { m.report() })
		}
		up := src.subscribe(ctx, m)
		return NewDisposable(func() {
			m.stop()
			up.Dispose()
		})
	})
}

type monitor[T any] struct {
	dst     Subscriber[T]
	clock   Clock
	ticks   *ticker
	onStats func(StreamStats)
	last    time.Time
	count   atomic.Int64
	mu      sync.Mutex
	demand
}

func (m *monitor[T]) OnInit(c Controller) { m.init(c, m.dst) }

func (m *monitor[T]) OnValue(v T) {
	m.count.Inc()
	m.dst.OnValue(v)
}

func (m *monitor[T]) OnError(err error) {
	m.stop()
	m.report()
	m.dst.OnError(err)
}

func (m *monitor[T]) OnEnd() {
	m.stop()
	m.report()
	m.dst.OnEnd()
}

func (m *monitor[T]) stop() {
	if m.ticks != nil {
		m.ticks.stop()
	}
}

func (m *monitor[T]) report() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	count := m.count.Swap(0)
	elapsed := now.Sub(m.last).Seconds()
	m.last = now

	stats := StreamStats{Count: count, LastUpdate: now}
	if elapsed > 0 {
		stats.Rate = float64(count) / elapsed
	}
	if m.onStats == nil {
		return
	}
	if err := guard(func() { m.onStats(stats) }); err != nil {
		Logger().Warn("monitor callback panicked", zap.Error(err))
	}
}
