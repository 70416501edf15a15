package rxz

import (
	"context"
	"math"

	"go.uber.org/atomic"
)

// Unbounded is the demand a plain subscriber requests from a flowable source.
const Unbounded int64 = math.MaxInt64

// Observable is an immutable, re-subscribable wrapper around a Source.
// The zero Observable ends immediately.
type Observable[T any] struct {
	source   Source[T]
	mode     Mode
	flowable bool
}

// New wraps src as an Observable tagged with mode. The tag documents whether
// subscriptions share one production run (Hot) or re-run src (Cold); it does
// not change how src is invoked. src pushes regardless of demand: a
// DemandSubscriber receives a Controller whose Request is a no-op.
func New[T any](mode Mode, src Source[T]) Observable[T] {
	return Observable[T]{source: src, mode: mode}
}

// NewFlowable wraps a demand-driven src. The Subscriber handed to src is a
// DemandSubscriber; src must call its OnInit with a Controller before
// emitting and then emit no more values than were requested through it.
//
// Example:
//
//	o := rxz.NewFlowable(rxz.Cold, rxz.SourceFunc[Row](func(ctx context.Context, sub rxz.Subscriber[Row]) rxz.Disposable {
//		cursor := openCursor(ctx)
//		sub.(rxz.DemandSubscriber[Row]).OnInit(cursor)
//		return cursor
//	}))
func NewFlowable[T any](mode Mode, src Source[T]) Observable[T] {
	return Observable[T]{source: src, mode: mode, flowable: true}
}

func newObservable[T any](mode Mode, flowable bool, fn SourceFunc[T]) Observable[T] {
	return Observable[T]{source: fn, mode: mode, flowable: flowable}
}

// Mode reports whether the observable is cold or hot.
func (o Observable[T]) Mode() Mode {
	return o.mode
}

// IsHot reports whether subscriptions share one production run.
func (o Observable[T]) IsHot() bool {
	return o.mode == Hot
}

// IsFlowable reports whether the observable honours Controller.Request.
func (o Observable[T]) IsFlowable() bool {
	return o.flowable
}

// Subscribe starts the stream with the given callbacks and returns the handle
// that cancels it. Nil onValue and onEnd callbacks are no-ops; a nil onError
// logs the error.
func (o Observable[T]) Subscribe(onValue func(T), onError func(error), onEnd func()) Disposable {
	return o.SubscribeWith(Observer[T]{OnValueFunc: onValue, OnErrorFunc: onError, OnEndFunc: onEnd})
}

// SubscribeWith starts the stream with a full Subscriber, which may be a
// DemandSubscriber.
func (o Observable[T]) SubscribeWith(sub Subscriber[T]) Disposable {
	return o.subscribe(context.Background(), sub)
}

// SubscribeContext is SubscribeWith bound to ctx: cancelling ctx disposes the
// subscription.
func (o Observable[T]) SubscribeContext(ctx context.Context, sub Subscriber[T]) Disposable {
	return o.subscribeWatching(ctx, sub, true)
}

func (o Observable[T]) subscribe(ctx context.Context, sub Subscriber[T]) *safeSubscriber[T] {
	return o.subscribeWatching(ctx, sub, false)
}

func (o Observable[T]) subscribeWatching(parent context.Context, sub Subscriber[T], watch bool) *safeSubscriber[T] {
	ctx, cancel := context.WithCancel(parent)
	s := &safeSubscriber[T]{inner: sub, cancel: cancel}
	if watch {
		stop := context.AfterFunc(parent, s.Dispose)
		s.unwatch.Store(&stop)
		// release may have run before the store and missed it.
		if s.released.Load() {
			stop()
		}
	}

	if !o.flowable || o.source == nil {
		if _, ok := sub.(initializer); ok {
			s.OnInit(pushController{s: s})
		}
	}

	if o.source == nil {
		s.OnEnd()
		return s
	}

	s.upstream.Set(o.source.Subscribe(ctx, s))
	return s
}

// safeSubscriber enforces the Subscriber contract around a user subscriber:
// exactly-once termination, silence after disposal, and release of the
// upstream subscription once either happens.
type safeSubscriber[T any] struct {
	inner    Subscriber[T]
	cancel   context.CancelFunc
	unwatch  atomic.Pointer[func() bool]
	upstream slot
	stopped  atomic.Bool
	inited   atomic.Bool
	released atomic.Bool
}

func (s *safeSubscriber[T]) OnValue(v T) {
	if s.stopped.Load() {
		return
	}
	s.inner.OnValue(v)
}

func (s *safeSubscriber[T]) OnError(err error) {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	defer s.release()
	s.inner.OnError(err)
}

func (s *safeSubscriber[T]) OnEnd() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	defer s.release()
	s.inner.OnEnd()
}

// OnInit hands the controller to a demand-aware inner subscriber, or requests
// unbounded demand for a plain one. A subscriber only sees the first
// controller; later ones belong to sources it cannot regulate and are drained
// without bound.
func (s *safeSubscriber[T]) OnInit(c Controller) {
	if !s.inited.CompareAndSwap(false, true) {
		c.Request(Unbounded)
		return
	}
	if in, ok := s.inner.(initializer); ok {
		in.OnInit(guardedController{c: c, s: s})
		return
	}
	c.Request(Unbounded)
}

// Dispose cancels the subscription without a terminal callback.
func (s *safeSubscriber[T]) Dispose() {
	s.stopped.Store(true)
	s.release()
}

func (s *safeSubscriber[T]) isStopped() bool {
	return s.stopped.Load()
}

func (s *safeSubscriber[T]) release() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}
	s.cancel()
	if stop := s.unwatch.Load(); stop != nil {
		(*stop)()
	}
	s.upstream.Dispose()
}

type stoppable interface {
	Disposable
	isStopped() bool
}

// guardedController forwards demand while the subscription is live and turns
// Cancel into disposal of the whole subscription.
type guardedController struct {
	c Controller
	s stoppable
}

func (g guardedController) Request(n int64) {
	if n <= 0 || g.s.isStopped() {
		return
	}
	g.c.Request(n)
}

func (g guardedController) Cancel() {
	g.c.Cancel()
	g.s.Dispose()
}

// pushController is handed to demand-aware subscribers of sources that push
// regardless of demand.
type pushController struct {
	s stoppable
}

func (pushController) Request(int64) {}

func (p pushController) Cancel() {
	p.s.Dispose()
}
