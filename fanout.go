package rxz

import (
	"context"
	"sync"
)

// Share multicasts src: all concurrent subscribers share one upstream
// subscription instead of running src once each. Upstream is subscribed when
// the first subscriber arrives and disposed when the last one leaves. Once
// upstream terminates, the next subscriber starts a fresh run.
//
// When to use:
//   - Broadcasting events to multiple consumers
//   - Running an expensive or side-effecting source once for several branches
//
// Example:
//
//	// Each branch sees every event; the watcher runs once
//	events := rxz.Share(fswatch.Watch("/etc/app"))
//	events.Subscribe(alert, nil, nil)
//	events.Subscribe(audit, nil, nil)
func Share[T any](src Observable[T]) Observable[T] {
	sh := &share[T]{src: src}
	return newObservable(Hot, false, sh.subscribe)
}

type share[T any] struct {
	src     Observable[T]
	current *connection[T]
	mu      sync.Mutex
}

// connection is one upstream run and the Subject fanning it out.
type connection[T any] struct {
	subject  *Subject[T]
	upstream slot
	refs     int
}

func (sh *share[T]) subscribe(ctx context.Context, sub Subscriber[T]) Disposable {
	sh.mu.Lock()
	c := sh.current
	fresh := c == nil
	if fresh {
		c = &connection[T]{subject: NewSubject[T]()}
		sh.current = c
	}
	c.refs++
	sh.mu.Unlock()

	entry := c.subject.register(ctx, sub)
	if fresh {
		c.upstream.Set(sh.src.subscribe(context.Background(), shareInput[T]{sh: sh, c: c}))
	}
	return NewDisposable(func() {
		entry.Dispose()
		sh.release(c)
	})
}

func (sh *share[T]) release(c *connection[T]) {
	sh.mu.Lock()
	c.refs--
	last := c.refs == 0
	if last && sh.current == c {
		sh.current = nil
	}
	sh.mu.Unlock()
	if last {
		c.upstream.Dispose()
	}
}

func (sh *share[T]) detach(c *connection[T]) {
	sh.mu.Lock()
	if sh.current == c {
		sh.current = nil
	}
	sh.mu.Unlock()
}

type shareInput[T any] struct {
	sh *share[T]
	c  *connection[T]
}

func (in shareInput[T]) OnValue(v T) { in.c.subject.Push(v) }

func (in shareInput[T]) OnError(err error) {
	in.sh.detach(in.c)
	in.c.subject.Error(err)
}

func (in shareInput[T]) OnEnd() {
	in.sh.detach(in.c)
	in.c.subject.End()
}
