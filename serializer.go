package rxz

import "sync"

// serializer delivers signals from any number of goroutines to one subscriber
// without overlapping calls. A signal that arrives while another goroutine (or
// a re-entrant call on the same goroutine) is delivering is queued and drained
// by the current emitter, so no lock is held while user callbacks run.
type serializer[T any] struct {
	dst      Subscriber[T]
	queue    []Signal[T]
	mu       sync.Mutex
	emitting bool
	done     bool
}

func newSerializer[T any](dst Subscriber[T]) *serializer[T] {
	return &serializer[T]{dst: dst}
}

func (s *serializer[T]) next(v T)        { s.emit(Next(v)) }
func (s *serializer[T]) end()            { s.emit(End[T]()) }
func (s *serializer[T]) fail(err error)  { s.emit(Error[T](err)) }
func (s *serializer[T]) OnValue(v T)     { s.next(v) }
func (s *serializer[T]) OnError(e error) { s.fail(e) }
func (s *serializer[T]) OnEnd()          { s.end() }

// terminated reports whether a terminal signal was accepted.
func (s *serializer[T]) terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *serializer[T]) emit(sig Signal[T]) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	if sig.IsTerminal() {
		s.done = true
	}
	s.queue = append(s.queue, sig)
	if s.emitting {
		s.mu.Unlock()
		return
	}
	s.emitting = true

	for {
		if len(s.queue) == 0 {
			s.emitting = false
			s.mu.Unlock()
			return
		}
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, q := range batch {
			q.dispatch(s.dst)
		}

		s.mu.Lock()
	}
}
