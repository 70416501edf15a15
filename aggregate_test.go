package rxz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zoobzio/rxz"
	rxztest "github.com/zoobzio/rxz/testing"
)

func TestReduce(t *testing.T) {
	t.Run("sum", func(t *testing.T) {
		rec, d := rxztest.Record(rxz.Reduce(rxz.Of(1, 2, 3, 4), rxz.Sum[int](), 0))
		defer d.Dispose()

		rxztest.AssertValues(t, rec, 10)
		rxztest.AssertEnded(t, rec)
	})

	t.Run("empty yields seed", func(t *testing.T) {
		rec, d := rxztest.Record(rxz.Reduce(rxz.Empty[int](), rxz.Sum[int](), 7))
		defer d.Dispose()

		rxztest.AssertValues(t, rec, 7)
		rxztest.AssertEnded(t, rec)
	})

	t.Run("error emits nothing", func(t *testing.T) {
		boom := errors.New("boom")
		o := rxz.Concat(rxz.Of(1, 2), rxz.Throw[int](boom))
		rec, d := rxztest.Record(rxz.Reduce(o, rxz.Sum[int](), 0))
		defer d.Dispose()

		rxztest.AssertValues(t, rec)
		rxztest.AssertErrorIs(t, rec, boom)
	})

	t.Run("accumulator panic", func(t *testing.T) {
		rec, d := rxztest.Record(rxz.Reduce(rxz.Of(1, 2), func(acc, v int) int {
			if v == 2 {
				panic("two")
			}
			return acc + v
		}, 0))
		defer d.Dispose()

		rxztest.AssertValues(t, rec)
		rxztest.AssertErrorIs(t, rec, rxz.ErrPanic)
	})

	t.Run("collect into map", func(t *testing.T) {
		o := rxz.Reduce(rxz.Of("a", "bb", "cc"), func(m map[int][]string, s string) map[int][]string {
			m[len(s)] = append(m[len(s)], s)
			return m
		}, map[int][]string{})

		values, err := rxztest.CollectWithTimeout(t, o, time.Second)
		assert.NoError(t, err)
		assert.Equal(t, []map[int][]string{{1: {"a"}, 2: {"bb", "cc"}}}, values)
	})
}

func TestReduceOnDemandSource(t *testing.T) {
	// A single requested value is enough to fold the whole finite source.
	countdown := rxz.Generate(func(n int, sink rxz.Sink[int]) int {
		if n == 0 {
			sink(rxz.End[int]())
			return 0
		}
		sink(rxz.Next(n))
		return n - 1
	}, 4, nil)

	rec := rxztest.NewDemandRecorder[int](1)
	d := rxz.Reduce(countdown, rxz.Sum[int](), 0).SubscribeWith(rec)
	defer d.Dispose()

	rxztest.AssertValues(t, rec, 10)
	rxztest.AssertEnded(t, rec)
}

func TestScan(t *testing.T) {
	rec, d := rxztest.Record(rxz.Scan(rxz.Of(1, 2, 3), rxz.Sum[int](), 0))
	defer d.Dispose()

	rxztest.AssertValues(t, rec, 1, 3, 6)
	rxztest.AssertEnded(t, rec)
}

func TestScanEmpty(t *testing.T) {
	rec, d := rxztest.Record(rxz.Scan(rxz.Empty[int](), rxz.Sum[int](), 5))
	defer d.Dispose()

	rxztest.AssertValues(t, rec)
	rxztest.AssertEnded(t, rec)
}

func TestAccumulators(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		values, err := rxz.Collect(context.Background(), rxz.Reduce(rxz.Of("a", "b", "c"), rxz.Count[string](), 0))
		assert.NoError(t, err)
		assert.Equal(t, []int{3}, values)
	})

	t.Run("average", func(t *testing.T) {
		values, err := rxz.Collect(context.Background(), rxz.Reduce(rxz.Of(2, 4, 9), rxz.Avg[int](), rxz.Average{}))
		assert.NoError(t, err)
		assert.Len(t, values, 1)
		assert.InDelta(t, 5.0, values[0].Value(), 1e-9)
		assert.Equal(t, 3, values[0].Count)
	})

	t.Run("empty average", func(t *testing.T) {
		assert.Zero(t, rxz.Average{}.Value())
	})

	t.Run("min max", func(t *testing.T) {
		values, err := rxz.Collect(context.Background(), rxz.Reduce(rxz.Of(3.5, -1.0, 8.25), rxz.MinMaxOf[float64](), rxz.MinMax[float64]{}))
		assert.NoError(t, err)
		assert.Equal(t, []rxz.MinMax[float64]{{Min: -1, Max: 8.25, Count: 3}}, values)
		assert.Equal(t, "Min: -1, Max: 8.25, Count: 3", values[0].String())
	})
}
