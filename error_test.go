package rxz

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	t.Run("returns nil without panic", func(t *testing.T) {
		assert.NoError(t, guard(func() {}))
	})

	t.Run("converts panic value", func(t *testing.T) {
		err := guard(func() { panic("kaboom") })
		assert.ErrorIs(t, err, ErrPanic)
		assert.Contains(t, err.Error(), "kaboom")
	})

	t.Run("converts panic error", func(t *testing.T) {
		cause := fmt.Errorf("bad state")
		err := guard(func() { panic(cause) })
		assert.ErrorIs(t, err, ErrPanic)
		assert.Contains(t, err.Error(), "bad state")
	})
}

func TestPanicErrorCarriesStack(t *testing.T) {
	err := panicError("x")

	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	_, ok := err.(stackTracer)
	assert.True(t, ok, "expected a stack trace on %T", err)
}

func TestIsNil(t *testing.T) {
	var (
		p  *int
		m  map[string]int
		ch chan int
		fn func()
		e  error
		s  []int
	)

	cases := []struct {
		name string
		v    any
		want bool
	}{
		{"untyped nil", nil, true},
		{"nil pointer", p, true},
		{"nil map", m, true},
		{"nil channel", ch, true},
		{"nil func", fn, true},
		{"nil interface", e, true},
		{"nil slice", s, false},
		{"zero int", 0, false},
		{"empty string", "", false},
		{"non-nil pointer", new(int), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isNil(tc.v))
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrInvalidValue, ErrOverflow, ErrPanic, ErrGenerateContract, ErrInvalidArgument}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v unexpectedly matches %v", a, b)
			}
		}
	}
}
