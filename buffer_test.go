package rxz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zoobzio/rxz"
	rxztest "github.com/zoobzio/rxz/testing"
)

func TestBuffer(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		size     int
		expected [][]int
	}{
		{name: "exact groups", count: 6, size: 2, expected: [][]int{{0, 1}, {2, 3}, {4, 5}}},
		{name: "partial tail", count: 5, size: 2, expected: [][]int{{0, 1}, {2, 3}, {4}}},
		{name: "size one", count: 3, size: 1, expected: [][]int{{0}, {1}, {2}}},
		{name: "larger than stream", count: 2, size: 5, expected: [][]int{{0, 1}}},
		{name: "empty stream", count: 0, size: 3, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, d := rxztest.Record(rxz.Buffer(rxz.Range(tt.count), tt.size))
			defer d.Dispose()

			rxztest.AssertValues(t, rec, tt.expected...)
			rxztest.AssertEnded(t, rec)
		})
	}
}

func TestBufferDiscardsPartialGroupOnError(t *testing.T) {
	boom := errors.New("boom")
	o := rxz.Concat(rxz.Range(3), rxz.Throw[int](boom))

	rec, d := rxztest.Record(rxz.Buffer(o, 2))
	defer d.Dispose()

	rxztest.AssertValues(t, rec, []int{0, 1})
	rxztest.AssertErrorIs(t, rec, boom)
}

func TestBufferInvalidSize(t *testing.T) {
	for _, n := range []int{0, -3} {
		rec, d := rxztest.Record(rxz.Buffer(rxz.Range(3), n))
		rxztest.AssertValues(t, rec)
		rxztest.AssertErrorIs(t, rec, rxz.ErrInvalidArgument)
		d.Dispose()
	}
}

func TestBufferGroupsAreIndependent(t *testing.T) {
	values, err := rxz.Collect(context.Background(), rxz.Buffer(rxz.Range(4), 2))
	assert.NoError(t, err)
	values[0][0] = 99
	assert.Equal(t, []int{2, 3}, values[1])
}

func TestUnbatch(t *testing.T) {
	o := rxz.Unbatch(rxz.Of([]int{1, 2}, nil, []int{3}))
	rec, d := rxztest.Record(o)
	defer d.Dispose()

	rxztest.AssertValues(t, rec, 1, 2, 3)
	rxztest.AssertEnded(t, rec)
}

func TestBufferUnbatchRoundTrip(t *testing.T) {
	values, err := rxz.Collect(context.Background(), rxz.Unbatch(rxz.Buffer(rxz.Range(7), 3)))
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, values)
}
