package rxz

import (
	"context"

	"github.com/pkg/errors"
)

// Buffer groups consecutive values into slices of n, preserving arrival order.
// When upstream ends with a partial, non-empty group, that group is emitted
// before the end of the stream; on error it is discarded. A size below 1
// terminates the stream with ErrInvalidArgument without subscribing upstream.
//
// When to use:
//   - Bulk writes to databases or APIs with fixed batch limits
//   - Pairing or chunking values for downstream processing
//
// Example:
//
//	// Insert rows 500 at a time
//	batches := rxz.Buffer(rows, 500)
//	batches.Subscribe(func(batch []Row) {
//		bulkInsert(batch)
//	}, nil, nil)
func Buffer[T any](src Observable[T], n int) Observable[[]T] {
	if n < 1 {
		err := errors.Wrapf(ErrInvalidArgument, "buffer size %d", n)
		return newObservable(src.mode, false, func(_ context.Context, sub Subscriber[[]T]) Disposable {
			sub.OnError(err)
			return Disposed
		})
	}
	return lift(src, func(dst Subscriber[[]T], _ Disposable) Subscriber[T] {
		return &buffer[T]{dst: dst, size: n}
	})
}

type buffer[T any] struct {
	dst   Subscriber[[]T]
	group []T
	size  int
	demand
}

func (b *buffer[T]) OnInit(c Controller) { b.init(c, b.dst) }

func (b *buffer[T]) OnValue(v T) {
	if b.group == nil {
		b.group = make([]T, 0, b.size)
	}
	b.group = append(b.group, v)
	if len(b.group) < b.size {
		b.replenish()
		return
	}
	group := b.group
	b.group = nil
	b.dst.OnValue(group)
}

func (b *buffer[T]) OnError(err error) {
	b.group = nil
	b.dst.OnError(err)
}

func (b *buffer[T]) OnEnd() {
	if len(b.group) > 0 {
		group := b.group
		b.group = nil
		b.dst.OnValue(group)
	}
	b.dst.OnEnd()
}
