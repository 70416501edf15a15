package rxz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zoobzio/rxz"
	rxztest "github.com/zoobzio/rxz/testing"
)

func TestTake(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		expected []int
	}{
		{name: "fewer than available", n: 2, expected: []int{0, 1}},
		{name: "exactly available", n: 5, expected: []int{0, 1, 2, 3, 4}},
		{name: "more than available", n: 10, expected: []int{0, 1, 2, 3, 4}},
		{name: "zero", n: 0, expected: nil},
		{name: "negative", n: -1, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, d := rxztest.Record(rxz.Take(rxz.Range(5), tt.n))
			defer d.Dispose()

			rxztest.AssertValues(t, rec, tt.expected...)
			rxztest.AssertEnded(t, rec)
		})
	}
}

func TestTakeEndsWithoutWaitingForUpstream(t *testing.T) {
	s := rxz.NewSubject[int]()
	rec, d := rxztest.Record(rxz.Take(s.Observable, 2))
	defer d.Dispose()

	s.Push(1)
	rxztest.AssertNotTerminated(t, rec)
	s.Push(2)

	rxztest.AssertValues(t, rec, 1, 2)
	rxztest.AssertEnded(t, rec)
	assert.Equal(t, 0, s.Len())
}

func TestTakeZeroDoesNotSubscribe(t *testing.T) {
	subscribed := false
	o := rxz.Defer(func() rxz.Observable[int] {
		subscribed = true
		return rxz.Range(3)
	})

	rec, d := rxztest.Record(rxz.Take(o, 0))
	defer d.Dispose()

	rxztest.AssertEnded(t, rec)
	assert.False(t, subscribed)
}

func TestTakeInfiniteGenerator(t *testing.T) {
	values, err := rxz.Collect(context.Background(), rxz.Take(naturals(), 4))
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, values)
}

func TestTakeWhile(t *testing.T) {
	rec, d := rxztest.Record(rxz.TakeWhile(rxz.Of(1, 2, 5, 3, 1), func(n int) bool { return n < 4 }))
	defer d.Dispose()

	rxztest.AssertValues(t, rec, 1, 2)
	rxztest.AssertEnded(t, rec)
}

func TestTakeWhilePanic(t *testing.T) {
	rec, d := rxztest.Record(rxz.TakeWhile(rxz.Of(1, 2), func(n int) bool {
		if n == 2 {
			panic("two")
		}
		return true
	}))
	defer d.Dispose()

	rxztest.AssertValues(t, rec, 1)
	rxztest.AssertErrorIs(t, rec, rxz.ErrPanic)
}

func TestSkip(t *testing.T) {
	t.Run("skips prefix", func(t *testing.T) {
		rec, d := rxztest.Record(rxz.Skip(rxz.Range(5), 2))
		defer d.Dispose()
		rxztest.AssertValues(t, rec, 2, 3, 4)
		rxztest.AssertEnded(t, rec)
	})

	t.Run("skips everything", func(t *testing.T) {
		rec, d := rxztest.Record(rxz.Skip(rxz.Range(3), 10))
		defer d.Dispose()
		rxztest.AssertValues(t, rec)
		rxztest.AssertEnded(t, rec)
	})

	t.Run("zero skips nothing", func(t *testing.T) {
		rec, d := rxztest.Record(rxz.Skip(rxz.Range(2), 0))
		defer d.Dispose()
		rxztest.AssertValues(t, rec, 0, 1)
	})

	t.Run("error passes through", func(t *testing.T) {
		boom := errors.New("boom")
		rec, d := rxztest.Record(rxz.Skip(rxz.Throw[int](boom), 1))
		defer d.Dispose()
		rxztest.AssertErrorIs(t, rec, boom)
	})
}

func TestSkipReplenishesDemand(t *testing.T) {
	rec := rxztest.NewDemandRecorder[int](2)
	d := rxz.Skip(naturals(), 3).SubscribeWith(rec)
	defer d.Dispose()

	rxztest.AssertValues(t, rec, 3, 4)
}

func TestSkipWhile(t *testing.T) {
	rec, d := rxztest.Record(rxz.SkipWhile(rxz.Of(1, 2, 5, 3, 1), func(n int) bool { return n < 4 }))
	defer d.Dispose()

	// Once the predicate fails it is never consulted again.
	rxztest.AssertValues(t, rec, 5, 3, 1)
	rxztest.AssertEnded(t, rec)
}

func TestSlice(t *testing.T) {
	rec, d := rxztest.Record(rxz.Slice(rxz.Range(10), 3, 6))
	defer d.Dispose()

	rxztest.AssertValues(t, rec, 3, 4, 5)
	rxztest.AssertEnded(t, rec)
}
