package rxz_test

import (
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/zoobzio/rxz"
	rxztest "github.com/zoobzio/rxz/testing"
)

func identity[T any](v T) T { return v }

func TestDistinct(t *testing.T) {
	rec, d := rxztest.Record(rxz.Distinct(rxz.Of(1, 2, 1, 3, 2, 4), identity[int]))
	defer d.Dispose()

	rxztest.AssertValues(t, rec, 1, 2, 3, 4)
	rxztest.AssertEnded(t, rec)
}

func TestDistinctByKey(t *testing.T) {
	o := rxz.Distinct(rxz.Of("Go", "go", "Rust", "GO", "rust"), strings.ToLower)
	rec, d := rxztest.Record(o)
	defer d.Dispose()

	rxztest.AssertValues(t, rec, "Go", "Rust")
}

func TestDistinctKeyPanic(t *testing.T) {
	o := rxz.Distinct(rxz.Of(1, 2), func(n int) int {
		if n == 2 {
			panic("bad key")
		}
		return n
	})
	rec, d := rxztest.Record(o)
	defer d.Dispose()

	rxztest.AssertValues(t, rec, 1)
	rxztest.AssertErrorIs(t, rec, rxz.ErrPanic)
}

func TestDistinctUntilChanged(t *testing.T) {
	rec, d := rxztest.Record(rxz.DistinctUntilChanged(rxz.Of(1, 1, 2, 2, 2, 1, 3, 3), identity[int]))
	defer d.Dispose()

	rxztest.AssertValues(t, rec, 1, 2, 1, 3)
	rxztest.AssertEnded(t, rec)
}

func TestDedupe(t *testing.T) {
	clock := clockz.NewFakeClock()
	s := rxz.NewSubject[string]()

	rec, d := rxztest.Record(rxz.Dedupe(s.Observable, identity[string], time.Minute, clock))
	defer d.Dispose()

	s.Push("a")
	s.Push("b")
	s.Push("a")
	rxztest.AssertValues(t, rec, "a", "b")

	clock.Advance(30 * time.Second)
	s.Push("a")
	rxztest.AssertValues(t, rec, "a", "b")

	// The ttl counts from when the key was admitted.
	clock.Advance(31 * time.Second)
	s.Push("a")
	s.Push("c")
	s.Push("c")
	rxztest.AssertValues(t, rec, "a", "b", "a", "c")
}

func TestDedupeSubscriptionsAreIndependent(t *testing.T) {
	clock := clockz.NewFakeClock()
	o := rxz.Dedupe(rxz.Of(1, 1, 2), identity[int], time.Hour, clock)

	first, d1 := rxztest.Record(o)
	second, d2 := rxztest.Record(o)
	defer d1.Dispose()
	defer d2.Dispose()

	rxztest.AssertValues(t, first, 1, 2)
	rxztest.AssertValues(t, second, 1, 2)
}
