package rxz

import (
	"context"
	"sync"
)

// FromChannel returns a hot Observable fed by ch. Each subscription starts a
// goroutine that receives from ch until it is closed, which ends the stream,
// or the subscription is disposed. Concurrent subscriptions compete for the
// values of ch; use Share to give every subscriber all of them.
//
// Example:
//
//	updates := make(chan Update)
//	go produce(updates)
//	rxz.FromChannel(updates).Subscribe(apply, nil, nil)
func FromChannel[T any](ch <-chan T) Observable[T] {
	return newObservable(Hot, false, func(ctx context.Context, sub Subscriber[T]) Disposable {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						sub.OnEnd()
						return
					}
					sub.OnValue(v)
				}
			}
		}()
		return Disposed
	})
}

// ToChannel subscribes to o on a new goroutine and delivers its events as
// signals on the returned channel: one Next per value, then a terminal End or
// Error, after which the channel is closed. Producers block until each signal
// is received. Cancelling ctx disposes the subscription and closes the
// channel without a terminal signal.
//
// Example:
//
//	for sig := range rxz.ToChannel(ctx, results) {
//		if sig.Kind() == rxz.KindError {
//			return sig.Err()
//		}
//		handle(sig.Value())
//	}
func ToChannel[T any](ctx context.Context, o Observable[T]) <-chan Signal[T] {
	c := &channelSink[T]{ctx: ctx, ch: make(chan Signal[T])}
	stop := context.AfterFunc(ctx, c.close)
	c.stop = stop
	go o.SubscribeContext(ctx, c)
	return c.ch
}

// Collect subscribes to o and gathers its values until it ends. It returns
// the values received so far together with the stream error, or ctx.Err()
// when ctx is cancelled first.
func Collect[T any](ctx context.Context, o Observable[T]) ([]T, error) {
	var values []T
	for sig := range ToChannel(ctx, o) {
		switch sig.Kind() {
		case KindNext:
			values = append(values, sig.Value())
		case KindError:
			return values, sig.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return values, err
	}
	return values, nil
}

type channelSink[T any] struct {
	ctx    context.Context
	ch     chan Signal[T]
	stop   func() bool
	mu     sync.RWMutex
	closed bool
}

func (c *channelSink[T]) OnValue(v T)       { c.send(Next(v)) }
func (c *channelSink[T]) OnError(err error) { c.terminate(Error[T](err)) }
func (c *channelSink[T]) OnEnd()            { c.terminate(End[T]()) }

func (c *channelSink[T]) terminate(sig Signal[T]) {
	c.send(sig)
	c.stop()
	c.close()
}

func (c *channelSink[T]) send(sig Signal[T]) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- sig:
	case <-c.ctx.Done():
	}
}

func (c *channelSink[T]) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}
