// Package testing provides test utilities for rxz.
package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zoobzio/rxz"
)

// Recorder is a demand-aware Subscriber that records every event it receives.
// It is safe for concurrent use, so it can observe streams fed from timer or
// watcher goroutines.
type Recorder[T any] struct {
	ctrl    rxz.Controller
	events  []rxz.Signal[T]
	done    chan struct{}
	initial int64
	mu      sync.Mutex
	ends    int
}

// NewRecorder creates a Recorder that requests unbounded demand on init.
func NewRecorder[T any]() *Recorder[T] {
	return NewDemandRecorder[T](rxz.Unbounded)
}

// NewDemandRecorder creates a Recorder that requests initial values on init
// and afterwards only what is asked for with Request.
func NewDemandRecorder[T any](initial int64) *Recorder[T] {
	return &Recorder[T]{initial: initial, done: make(chan struct{})}
}

// Record subscribes a new unbounded Recorder to o.
func Record[T any](o rxz.Observable[T]) (*Recorder[T], rxz.Disposable) {
	rec := NewRecorder[T]()
	return rec, o.SubscribeWith(rec)
}

// OnInit implements rxz.DemandSubscriber.
func (r *Recorder[T]) OnInit(c rxz.Controller) {
	r.mu.Lock()
	r.ctrl = c
	r.mu.Unlock()
	if r.initial > 0 {
		c.Request(r.initial)
	}
}

// OnValue implements rxz.Subscriber.
func (r *Recorder[T]) OnValue(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, rxz.Next(v))
}

// OnError implements rxz.Subscriber.
func (r *Recorder[T]) OnError(err error) {
	r.terminate(rxz.Error[T](err))
}

// OnEnd implements rxz.Subscriber.
func (r *Recorder[T]) OnEnd() {
	r.terminate(rxz.End[T]())
}

func (r *Recorder[T]) terminate(sig rxz.Signal[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sig)
	r.ends++
	if r.ends == 1 {
		close(r.done)
	}
}

// Request asks the upstream for n more values.
func (r *Recorder[T]) Request(n int64) {
	r.mu.Lock()
	c := r.ctrl
	r.mu.Unlock()
	if c != nil {
		c.Request(n)
	}
}

// Cancel unsubscribes through the controller.
func (r *Recorder[T]) Cancel() {
	r.mu.Lock()
	c := r.ctrl
	r.mu.Unlock()
	if c != nil {
		c.Cancel()
	}
}

// Events returns every recorded event in arrival order.
func (r *Recorder[T]) Events() []rxz.Signal[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]rxz.Signal[T](nil), r.events...)
}

// Values returns the recorded values in arrival order.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	values := make([]T, 0, len(r.events))
	for _, e := range r.events {
		if e.Kind() == rxz.KindNext {
			values = append(values, e.Value())
		}
	}
	return values
}

// Err returns the terminal error, or nil.
func (r *Recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Kind() == rxz.KindError {
			return e.Err()
		}
	}
	return nil
}

// Ended reports whether the stream ended successfully.
func (r *Recorder[T]) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Kind() == rxz.KindEnd {
			return true
		}
	}
	return false
}

// Terminations returns how many terminal events were received.
func (r *Recorder[T]) Terminations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ends
}

// Wait blocks until the stream terminates or timeout expires, and reports
// whether it terminated.
func (r *Recorder[T]) Wait(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-r.done:
		return true
	case <-timer.C:
		return false
	}
}

// AssertValues verifies the recorded values.
func AssertValues[T any](t *testing.T, r *Recorder[T], expected ...T) {
	t.Helper()

	if len(expected) == 0 {
		assert.Empty(t, r.Values())
		return
	}
	assert.Equal(t, expected, r.Values())
}

// AssertEnded verifies the stream ended successfully exactly once.
func AssertEnded[T any](t *testing.T, r *Recorder[T]) {
	t.Helper()

	assert.True(t, r.Ended(), "expected stream to end")
	assert.NoError(t, r.Err())
	assert.Equal(t, 1, r.Terminations(), "expected exactly one terminal event")
}

// AssertErrorIs verifies the stream failed exactly once with an error
// matching target.
func AssertErrorIs[T any](t *testing.T, r *Recorder[T], target error) {
	t.Helper()

	assert.ErrorIs(t, r.Err(), target)
	assert.Equal(t, 1, r.Terminations(), "expected exactly one terminal event")
}

// AssertNotTerminated verifies no terminal event was received.
func AssertNotTerminated[T any](t *testing.T, r *Recorder[T]) {
	t.Helper()

	assert.Equal(t, 0, r.Terminations(), "expected stream to still be running")
}

// CollectWithTimeout subscribes to o and waits for it to terminate. It fails
// the test if the stream does not terminate within timeout.
func CollectWithTimeout[T any](t *testing.T, o rxz.Observable[T], timeout time.Duration) ([]T, error) {
	t.Helper()

	rec, d := Record(o)
	defer d.Dispose()
	if !rec.Wait(timeout) {
		t.Fatalf("stream did not terminate within %v", timeout)
	}
	return rec.Values(), rec.Err()
}
