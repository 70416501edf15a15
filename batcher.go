package rxz

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// BatchConfig bounds the batches produced by Batch.
type BatchConfig struct {
	// MaxSize is the largest number of values in one batch. Must be at least 1.
	MaxSize int

	// MaxLatency is the longest time the first value of a batch waits before
	// the batch is emitted. Zero disables the time trigger.
	MaxLatency time.Duration
}

// Batch groups values into slices, emitting a batch when either MaxSize
// values have been collected or MaxLatency has passed since the first value of
// the batch, whichever comes first. A partial batch is emitted when upstream
// ends and discarded on error. A nil clock uses RealClock.
//
// When to use:
//   - Optimizing database writes with bulk operations
//   - Reducing API calls by batching requests
//   - Micro-batching with a latency bound
//
// Example:
//
//	// Batch up to 1000 events or 5 seconds, whichever comes first
//	batches := rxz.Batch(events, rxz.BatchConfig{
//		MaxSize:    1000,
//		MaxLatency: 5 * time.Second,
//	}, nil)
func Batch[T any](src Observable[T], config BatchConfig, clock Clock) Observable[[]T] {
	if config.MaxSize < 1 {
		err := errors.Wrapf(ErrInvalidArgument, "batch size %d", config.MaxSize)
		return Throw[[]T](err)
	}
	if config.MaxLatency <= 0 {
		return Buffer(src, config.MaxSize)
	}
	clock = clockOrReal(clock)
	return newObservable(src.mode, false, func(ctx context.Context, sub Subscriber[[]T]) Disposable {
		b := &batcher[T]{out: newSerializer(sub), clock: clock, config: config}
		up := src.subscribe(ctx, b)
		return NewDisposable(func() {
			b.take()
			up.Dispose()
		})
	})
}

type batcher[T any] struct {
	out    *serializer[[]T]
	clock  Clock
	timer  Timer
	batch  []T
	config BatchConfig
	gen    uint64
	mu     sync.Mutex
}

func (b *batcher[T]) OnValue(v T) {
	b.mu.Lock()
	b.batch = append(b.batch, v)
	if len(b.batch) == 1 && len(b.batch) < b.config.MaxSize {
		gen := b.gen
		b.timer = afterFunc(b.clock, b.config.MaxLatency, func() { b.expire(gen) })
		b.mu.Unlock()
		return
	}
	if len(b.batch) < b.config.MaxSize {
		b.mu.Unlock()
		return
	}
	batch := b.takeLocked()
	b.mu.Unlock()
	b.out.next(batch)
}

func (b *batcher[T]) expire(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || len(b.batch) == 0 {
		b.mu.Unlock()
		return
	}
	batch := b.takeLocked()
	b.mu.Unlock()
	b.out.next(batch)
}

func (b *batcher[T]) OnError(err error) {
	b.take()
	b.out.fail(err)
}

func (b *batcher[T]) OnEnd() {
	if batch := b.take(); len(batch) > 0 {
		b.out.next(batch)
	}
	b.out.end()
}

func (b *batcher[T]) take() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.takeLocked()
}

// takeLocked detaches the current batch and invalidates its timer.
func (b *batcher[T]) takeLocked() []T {
	batch := b.batch
	b.batch = nil
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	return batch
}
