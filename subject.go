package rxz

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Subject is a hot Observable that is also an externally pushable sink. Every
// value pushed is delivered to all subscribers registered at that moment, in
// registration order. Once ended or failed the Subject stays terminated and
// replays the terminal event to every later subscriber, with no values.
//
// Pushes from concurrent goroutines, or from inside a subscriber callback,
// are serialized: each event reaches every subscriber before the next one
// starts. Subscribers added while an event is being delivered receive events
// from the next one on; subscribers removed meanwhile are skipped.
//
// Subject implements Subscriber, so it can subscribe to another Observable and
// rebroadcast it.
//
// Example:
//
//	clicks := rxz.NewSubject[Click]()
//	d := clicks.Subscribe(handleClick, nil, nil)
//	defer d.Dispose()
//
//	clicks.Push(Click{X: 10, Y: 20})
//	clicks.End()
type Subject[T any] struct {
	Observable[T]
	events   *serializer[T]
	entries  map[uint64]*subjectEntry[T]
	terminal *Signal[T]
	order    []uint64
	nextID   uint64
	mu       sync.Mutex
}

type subjectEntry[T any] struct {
	sub     Subscriber[T]
	removed atomic.Bool
}

// NewSubject creates a live Subject without subscribers.
func NewSubject[T any]() *Subject[T] {
	s := &Subject[T]{entries: make(map[uint64]*subjectEntry[T])}
	s.Observable = newObservable(Hot, false, s.register)
	s.events = newSerializer[T](broadcast[T]{s})
	return s
}

// Push delivers v to every current subscriber. Pushing to a terminated
// Subject has no effect.
func (s *Subject[T]) Push(v T) {
	s.events.next(v)
}

// End terminates the Subject successfully.
func (s *Subject[T]) End() {
	s.events.end()
}

// Error terminates the Subject with err. A nil err is replaced by
// ErrInvalidValue.
func (s *Subject[T]) Error(err error) {
	if err == nil {
		err = ErrInvalidValue
	}
	s.events.fail(err)
}

// OnValue implements Subscriber; it is Push.
func (s *Subject[T]) OnValue(v T) { s.Push(v) }

// OnError implements Subscriber; it is Error.
func (s *Subject[T]) OnError(err error) { s.Error(err) }

// OnEnd implements Subscriber; it is End.
func (s *Subject[T]) OnEnd() { s.End() }

// Len reports the number of registered subscribers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Subject[T]) register(_ context.Context, sub Subscriber[T]) Disposable {
	s.mu.Lock()
	if s.terminal != nil {
		sig := *s.terminal
		s.mu.Unlock()
		sig.dispatch(sub)
		return Disposed
	}
	id := s.nextID
	s.nextID++
	e := &subjectEntry[T]{sub: sub}
	s.entries[id] = e
	s.order = append(s.order, id)
	s.mu.Unlock()

	return NewDisposable(func() { s.remove(id) })
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return
	}
	e.removed.Store(true)
	delete(s.entries, id)
	// Compact lazily; order may still hold ids of removed entries.
	if len(s.order) > 2*len(s.entries)+8 {
		order := s.order[:0]
		for _, oid := range s.order {
			if _, live := s.entries[oid]; live {
				order = append(order, oid)
			}
		}
		s.order = order
	}
}

// snapshot returns the live entries in registration order. With terminal set
// it also freezes the Subject and empties the registry.
func (s *Subject[T]) snapshot(terminal *Signal[T]) []*subjectEntry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*subjectEntry[T], 0, len(s.entries))
	for _, id := range s.order {
		if e, ok := s.entries[id]; ok {
			out = append(out, e)
		}
	}
	if terminal != nil {
		s.terminal = terminal
		s.entries = make(map[uint64]*subjectEntry[T])
		s.order = nil
	}
	return out
}

// broadcast runs inside the Subject's serializer, one event at a time.
type broadcast[T any] struct {
	s *Subject[T]
}

func (b broadcast[T]) OnValue(v T) {
	for _, e := range b.s.snapshot(nil) {
		if !e.removed.Load() {
			e.sub.OnValue(v)
		}
	}
}

func (b broadcast[T]) OnError(err error) {
	sig := Error[T](err)
	b.terminate(sig)
}

func (b broadcast[T]) OnEnd() {
	b.terminate(End[T]())
}

func (b broadcast[T]) terminate(sig Signal[T]) {
	for _, e := range b.s.snapshot(&sig) {
		if !e.removed.Load() {
			sig.dispatch(e.sub)
		}
	}
}
