package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/rxz"
)

func TestRecorder(t *testing.T) {
	t.Run("records values and end", func(t *testing.T) {
		rec, d := Record(rxz.Of(1, 2, 3))
		defer d.Dispose()

		AssertValues(t, rec, 1, 2, 3)
		AssertEnded(t, rec)
	})

	t.Run("records error", func(t *testing.T) {
		boom := errors.New("boom")
		rec, d := Record(rxz.Throw[int](boom))
		defer d.Dispose()

		AssertValues(t, rec)
		AssertErrorIs(t, rec, boom)
	})

	t.Run("events keep arrival order", func(t *testing.T) {
		rec, d := Record(rxz.Of("a", "b"))
		defer d.Dispose()

		events := rec.Events()
		if len(events) != 3 {
			t.Fatalf("expected 3 events, got %d", len(events))
		}
		if events[0].Value() != "a" || events[1].Value() != "b" {
			t.Errorf("unexpected values: %v", events)
		}
		if events[2].Kind() != rxz.KindEnd {
			t.Errorf("expected end, got %v", events[2])
		}
	})

	t.Run("demand recorder pulls on request", func(t *testing.T) {
		rec := NewDemandRecorder[int](1)
		d := rxz.Generate(func(n int, sink rxz.Sink[int]) int {
			sink(rxz.Next(n))
			return n + 1
		}, 0, nil).SubscribeWith(rec)
		defer d.Dispose()

		AssertValues(t, rec, 0)
		rec.Request(2)
		AssertValues(t, rec, 0, 1, 2)
		AssertNotTerminated(t, rec)
	})

	t.Run("cancel stops delivery", func(t *testing.T) {
		rec := NewDemandRecorder[int](1)
		d := rxz.Generate(func(n int, sink rxz.Sink[int]) int {
			sink(rxz.Next(n))
			return n + 1
		}, 0, nil).SubscribeWith(rec)
		defer d.Dispose()

		rec.Cancel()
		rec.Request(5)
		AssertValues(t, rec, 0)
		AssertNotTerminated(t, rec)
	})
}

func TestWait(t *testing.T) {
	t.Run("returns true once terminated", func(t *testing.T) {
		rec, d := Record(rxz.Empty[int]())
		defer d.Dispose()

		if !rec.Wait(10 * time.Millisecond) {
			t.Error("expected recorder to be terminated")
		}
	})

	t.Run("returns false on timeout", func(t *testing.T) {
		rec, d := Record(rxz.Never[int]())
		defer d.Dispose()

		if rec.Wait(20 * time.Millisecond) {
			t.Error("expected timeout")
		}
	})
}

func TestCollectWithTimeout(t *testing.T) {
	values, err := CollectWithTimeout(t, rxz.Range(4), time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 4 {
		t.Errorf("expected 4 values, got %d", len(values))
	}
}
