package rxz

import (
	"context"
	"sync"
)

// Watchable is an external mutable cell that notifies watchers of changes.
// Watch registers fn to be called with every new value and returns a function
// that unregisters it.
type Watchable[T any] interface {
	Watch(fn func(T)) (unwatch func())
}

// FromWatchable returns a hot, infinite Observable of the changes of w. Each
// subscription registers a watcher; disposing it unregisters the watcher. The
// value held when subscribing is not emitted, only later changes.
//
// Example:
//
//	level := rxz.NewCell("info")
//	rxz.FromWatchable[string](level).Subscribe(func(l string) {
//		setLogLevel(l)
//	}, nil, nil)
//	level.Set("debug")
func FromWatchable[T any](w Watchable[T]) Observable[T] {
	return newObservable(Hot, false, func(_ context.Context, sub Subscriber[T]) Disposable {
		unwatch := w.Watch(sub.OnValue)
		return NewDisposable(unwatch)
	})
}

// Cell is an in-memory Watchable holding one value. Watchers run on the
// goroutine that changed the value, in registration order, after the change
// is visible to Get.
type Cell[T any] struct {
	value    T
	watchers map[uint64]func(T)
	order    []uint64
	nextID   uint64
	mu       sync.Mutex
}

// NewCell creates a Cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial, watchers: make(map[uint64]func(T))}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the value and notifies watchers.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	watchers := c.snapshot()
	c.mu.Unlock()
	notify(watchers, v)
}

// Swap replaces the value with fn(current), notifies watchers and returns the
// new value.
func (c *Cell[T]) Swap(fn func(T) T) T {
	c.mu.Lock()
	v := fn(c.value)
	c.value = v
	watchers := c.snapshot()
	c.mu.Unlock()
	notify(watchers, v)
	return v
}

// Watch implements Watchable.
func (c *Cell[T]) Watch(fn func(T)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = fn
	c.order = append(c.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.watchers, id)
			for i, oid := range c.order {
				if oid == id {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (c *Cell[T]) snapshot() []func(T) {
	out := make([]func(T), 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.watchers[id])
	}
	return out
}

func notify[T any](watchers []func(T), v T) {
	for _, fn := range watchers {
		fn(v)
	}
}
