package rxz_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zoobzio/rxz"
	rxztest "github.com/zoobzio/rxz/testing"
)

func TestShareSingleUpstream(t *testing.T) {
	subscriptions := 0
	s := rxz.NewSubject[int]()
	src := rxz.Defer(func() rxz.Observable[int] {
		subscriptions++
		return s.Observable
	})
	shared := rxz.Share(src)
	assert.True(t, shared.IsHot())

	a, da := rxztest.Record(shared)
	b, db := rxztest.Record(shared)
	defer da.Dispose()
	defer db.Dispose()

	s.Push(1)
	s.Push(2)
	s.End()

	assert.Equal(t, 1, subscriptions)
	rxztest.AssertValues(t, a, 1, 2)
	rxztest.AssertValues(t, b, 1, 2)
	rxztest.AssertEnded(t, a)
	rxztest.AssertEnded(t, b)
}

func TestShareDisconnectsWithLastSubscriber(t *testing.T) {
	s := rxz.NewSubject[int]()
	shared := rxz.Share(s.Observable)

	_, da := rxztest.Record(shared)
	_, db := rxztest.Record(shared)
	assert.Equal(t, 1, s.Len())

	da.Dispose()
	assert.Equal(t, 1, s.Len())
	db.Dispose()
	assert.Equal(t, 0, s.Len())
}

func TestShareReconnectsAfterTermination(t *testing.T) {
	runs := 0
	shared := rxz.Share(rxz.Defer(func() rxz.Observable[int] {
		runs++
		return rxz.Of(runs)
	}))

	first, d1 := rxztest.Record(shared)
	second, d2 := rxztest.Record(shared)
	defer d1.Dispose()
	defer d2.Dispose()

	rxztest.AssertValues(t, first, 1)
	rxztest.AssertValues(t, second, 2)
	assert.Equal(t, 2, runs)
}

func TestShareError(t *testing.T) {
	boom := errors.New("boom")
	s := rxz.NewSubject[int]()
	shared := rxz.Share(s.Observable)

	a, da := rxztest.Record(shared)
	b, db := rxztest.Record(shared)
	defer da.Dispose()
	defer db.Dispose()

	s.Error(boom)
	rxztest.AssertErrorIs(t, a, boom)
	rxztest.AssertErrorIs(t, b, boom)
}

func TestSplit(t *testing.T) {
	s := rxz.NewSubject[int]()
	out := rxz.Split(s.Observable, func(n int) bool { return n%2 == 0 })

	even, de := rxztest.Record(out.True)
	odd, do := rxztest.Record(out.False)
	defer de.Dispose()
	defer do.Dispose()

	for i := 1; i <= 6; i++ {
		s.Push(i)
	}
	s.End()

	rxztest.AssertValues(t, even, 2, 4, 6)
	rxztest.AssertValues(t, odd, 1, 3, 5)
	rxztest.AssertEnded(t, even)
	rxztest.AssertEnded(t, odd)
	assert.Equal(t, 0, s.Len())
}
