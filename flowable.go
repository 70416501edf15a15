package rxz

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Strategy decides what ToFlowable does with a value that arrives while
// downstream demand is exhausted.
type Strategy int

const (
	// BufferStrategy queues values without bound and delivers them in FIFO
	// order as demand becomes available. Termination waits behind the queue.
	BufferStrategy Strategy = iota
	// ErrorStrategy terminates the stream with ErrOverflow and disposes
	// upstream.
	ErrorStrategy
	// DropStrategy discards the value.
	DropStrategy
	// LatestStrategy keeps only the newest undelivered value, discarding the
	// one it replaces.
	LatestStrategy
)

func (s Strategy) String() string {
	switch s {
	case BufferStrategy:
		return "buffer"
	case ErrorStrategy:
		return "error"
	case DropStrategy:
		return "drop"
	case LatestStrategy:
		return "latest"
	default:
		return "unknown"
	}
}

// ToFlowable turns src into a demand-aware Observable. Upstream is subscribed
// at once and pushes without restriction; values are forwarded only while the
// subscriber has outstanding demand from Controller.Request, and the rest are
// handled by strategy. The producer is never blocked.
//
// Under BufferStrategy the end or error of upstream is delivered after every
// queued value. Under the other strategies it is delivered as soon as no
// value is mid-delivery, and any pending value is discarded.
//
// A plain Subscriber requests Unbounded and sees every value.
//
// When to use:
//   - Consumers that process at their own pace from a push source
//   - Bounding work in flight with Request(n)
//   - Keeping only the freshest state for slow consumers (LatestStrategy)
//
// Example:
//
//	// Only ever hold the latest reading for a slow consumer
//	readings := rxz.ToFlowable(sensor, rxz.LatestStrategy)
//	readings.SubscribeWith(consumer) // consumer calls Request(1) per value
func ToFlowable[T any](src Observable[T], strategy Strategy) Observable[T] {
	return newObservable(src.mode, true, func(ctx context.Context, sub Subscriber[T]) Disposable {
		f := &flowable[T]{dst: sub, strategy: strategy}
		if in, ok := sub.(initializer); ok {
			in.OnInit(f)
		} else {
			f.Request(Unbounded)
		}
		f.upstream.Set(src.subscribe(ctx, f))
		return NewDisposable(f.Cancel)
	})
}

type flowable[T any] struct {
	dst       Subscriber[T]
	upstream  slot
	queue     []T
	terminal  *Signal[T]
	requested int64
	strategy  Strategy
	mu        sync.Mutex
	emitting  bool
	done      bool
}

// Request implements Controller.
func (f *flowable[T]) Request(n int64) {
	if n <= 0 {
		return
	}
	f.mu.Lock()
	f.requested = addDemand(f.requested, n)
	f.mu.Unlock()
	f.drain()
}

// Cancel implements Controller.
func (f *flowable[T]) Cancel() {
	f.mu.Lock()
	f.done = true
	f.queue = nil
	f.terminal = nil
	f.mu.Unlock()
	f.upstream.Dispose()
}

func (f *flowable[T]) OnValue(v T) {
	f.mu.Lock()
	if f.done || f.terminal != nil {
		f.mu.Unlock()
		return
	}
	if f.requested-int64(len(f.queue)) > 0 || f.strategy == BufferStrategy {
		f.queue = append(f.queue, v)
		f.mu.Unlock()
		f.drain()
		return
	}

	switch f.strategy {
	case ErrorStrategy:
		f.queue = nil
		sig := Error[T](ErrOverflow)
		f.terminal = &sig
		f.mu.Unlock()
		f.upstream.Dispose()
		f.drain()
		return
	case LatestStrategy:
		replaced := int64(len(f.queue)) > f.requested
		if replaced {
			f.queue[len(f.queue)-1] = v
		} else {
			f.queue = append(f.queue, v)
		}
		f.mu.Unlock()
		if replaced {
			f.dropped()
		}
		f.drain()
	default:
		f.mu.Unlock()
		f.dropped()
	}
}

func (f *flowable[T]) OnError(err error) { f.finish(Error[T](err)) }
func (f *flowable[T]) OnEnd()            { f.finish(End[T]()) }

func (f *flowable[T]) finish(sig Signal[T]) {
	f.mu.Lock()
	if f.done || f.terminal != nil {
		f.mu.Unlock()
		return
	}
	if f.strategy != BufferStrategy {
		f.queue = nil
	}
	f.terminal = &sig
	f.mu.Unlock()
	f.drain()
}

// drain delivers queued values while demand lasts, then the terminal signal
// once the queue is empty. Requests made from inside OnValue only add demand;
// the running loop picks them up.
func (f *flowable[T]) drain() {
	f.mu.Lock()
	if f.emitting {
		f.mu.Unlock()
		return
	}
	f.emitting = true

	for !f.done {
		if len(f.queue) > 0 && f.requested > 0 {
			v := f.queue[0]
			var zero T
			f.queue[0] = zero
			f.queue = f.queue[1:]
			if f.requested != Unbounded {
				f.requested--
			}
			f.mu.Unlock()
			f.dst.OnValue(v)
			f.mu.Lock()
			continue
		}
		if len(f.queue) == 0 && f.terminal != nil {
			f.done = true
			sig := *f.terminal
			f.mu.Unlock()
			sig.dispatch(f.dst)
			f.mu.Lock()
		}
		break
	}

	f.emitting = false
	f.mu.Unlock()
}

func (f *flowable[T]) dropped() {
	Logger().Debug("backpressure dropped value", zap.Stringer("strategy", f.strategy))
}
