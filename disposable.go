package rxz

import (
	"sync"

	"go.uber.org/atomic"
)

// Disposable releases the resources held by a subscription.
// Dispose is idempotent: only the first call has an effect.
type Disposable interface {
	Dispose()
}

// Disposed is a Disposable that does nothing.
var Disposed Disposable = nopDisposable{}

type nopDisposable struct{}

func (nopDisposable) Dispose() {}

type funcDisposable struct {
	fn   func()
	done atomic.Bool
}

// NewDisposable returns a Disposable that runs fn at most once.
// A nil fn yields a Disposable that only records disposal.
func NewDisposable(fn func()) Disposable {
	return &funcDisposable{fn: fn}
}

func (d *funcDisposable) Dispose() {
	if d.done.CompareAndSwap(false, true) && d.fn != nil {
		d.fn()
	}
}

// CompositeDisposable disposes a group of Disposables together.
// Adding to a composite that was already disposed disposes the newcomer
// immediately.
type CompositeDisposable struct {
	items    []Disposable
	mu       sync.Mutex
	disposed bool
}

// NewCompositeDisposable creates a composite holding the given items.
func NewCompositeDisposable(items ...Disposable) *CompositeDisposable {
	return &CompositeDisposable{items: items}
}

// Add registers d with the composite.
func (c *CompositeDisposable) Add(d Disposable) {
	if d == nil {
		return
	}
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		d.Dispose()
		return
	}
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Dispose disposes every registered item once.
func (c *CompositeDisposable) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	items := c.items
	c.items = nil
	c.mu.Unlock()

	for _, d := range items {
		d.Dispose()
	}
}

// IsDisposed reports whether Dispose has been called.
func (c *CompositeDisposable) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// slot holds the Disposable of an upstream subscription that may only become
// known after disposal was already requested, as happens when a synchronous
// source terminates inside its own Subscribe call.
type slot struct {
	current  Disposable
	mu       sync.Mutex
	disposed bool
}

// Set installs d, disposing it right away if the slot was disposed.
func (s *slot) Set(d Disposable) {
	if d == nil {
		return
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		d.Dispose()
		return
	}
	s.current = d
	s.mu.Unlock()
}

func (s *slot) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	d := s.current
	s.current = nil
	s.mu.Unlock()

	if d != nil {
		d.Dispose()
	}
}
