package tracked

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/vellum/internal/pubsub"
)

func TestCell_SetAdvancesClock(t *testing.T) {
	clock := NewClock()
	defer clock.Close()

	name := NewCell(clock, "world").Named("name")
	require.Equal(t, Revision(0), clock.Revision(), "creating a cell is not a write")
	require.Equal(t, "world", name.Get())

	rev := name.Set("cruel world")
	require.Equal(t, Revision(1), rev)
	require.Equal(t, Revision(1), clock.Revision())
	require.Equal(t, "cruel world", name.Get())
	require.Equal(t, "cruel world", name.String())

	count := NewCell(clock, 1)
	count.Update(func(n int) int { return n + 41 })
	require.Equal(t, 42, count.Get())
	require.Equal(t, Revision(2), count.Revision())
	require.Equal(t, Revision(1), name.Revision())

	var r Reader = count
	require.Equal(t, 42, r.Value())
}

func TestClock_PublishesInvalidations(t *testing.T) {
	clock := NewClock()
	defer clock.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := clock.Subscribe(ctx)

	cell := NewCell(clock, 0)
	cell.Set(1)
	cell.Set(2)

	for _, want := range []Revision{1, 2} {
		select {
		case ev := <-events:
			require.Equal(t, pubsub.InvalidatedEvent, ev.Type)
			require.Equal(t, want, ev.Payload)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for invalidation")
		}
	}
}

func TestClock_WritesAfterClose(t *testing.T) {
	clock := NewClock()
	cell := NewCell(clock, "a")
	clock.Close()

	require.Equal(t, Revision(1), cell.Set("b"))
	require.Equal(t, "b", cell.Get())
}

func TestProperty_RevisionsIncrease(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clock := NewClock()
		defer clock.Close()

		n := rapid.IntRange(1, 5).Draw(t, "cells")
		cells := make([]*Cell[int], n)
		for i := range cells {
			cells[i] = NewCell(clock, 0)
		}

		writes := rapid.SliceOf(rapid.IntRange(0, n-1)).Draw(t, "writes")
		last := clock.Revision()
		for _, i := range writes {
			rev := cells[i].Set(i)
			if rev <= last {
				t.Fatalf("revision %d did not advance past %d", rev, last)
			}
			last = rev
		}
		if clock.Revision() != Revision(len(writes)) {
			t.Fatalf("clock at %d after %d writes", clock.Revision(), len(writes))
		}
	})
}
