package rxz

import "context"

// lift builds the Observable of a single-upstream operator. op wraps the
// downstream subscriber; stop disposes the upstream subscription, also when
// called before the upstream Subscribe has returned. The result keeps the
// mode and demand-awareness of src.
func lift[T, R any](src Observable[T], op func(dst Subscriber[R], stop Disposable) Subscriber[T]) Observable[R] {
	return newObservable(src.mode, src.flowable, func(ctx context.Context, dst Subscriber[R]) Disposable {
		up := &slot{}
		up.Set(src.subscribe(ctx, op(dst, up)))
		return up
	})
}

// demand remembers the upstream controller of an operator subscriber and
// hands it on downstream. Operators that swallow a value call replenish so
// that downstream demand is still met.
type demand struct {
	ctrl Controller
}

func (d *demand) init(c Controller, dst any) {
	d.ctrl = c
	if in, ok := dst.(initializer); ok {
		in.OnInit(c)
	}
}

func (d *demand) replenish() {
	if d.ctrl != nil {
		d.ctrl.Request(1)
	}
}

// relay forwards events without taking part in demand, so a demand-aware
// upstream behind it is drained without bound.
type relay[T any] struct {
	dst Subscriber[T]
}

func (r relay[T]) OnValue(v T)       { r.dst.OnValue(v) }
func (r relay[T]) OnError(err error) { r.dst.OnError(err) }
func (r relay[T]) OnEnd()            { r.dst.OnEnd() }
