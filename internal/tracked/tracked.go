// Package tracked holds mutable state whose writes advance a revision clock.
//
// There is no dependency graph: a Cell write bumps its Clock and announces
// the new revision on the clock's broker. Consumers compare revisions to
// decide whether a render pass is stale.
package tracked

import (
	"context"
	"fmt"

	"github.com/zjrosen/vellum/internal/log"
	"github.com/zjrosen/vellum/internal/pubsub"
)

// Revision is a point on a Clock. Revisions only grow.
type Revision uint64

// Clock counts tracked writes.
type Clock struct {
	rev    Revision
	broker *pubsub.Broker[Revision]
}

// NewClock returns a clock at revision zero.
func NewClock() *Clock {
	return &Clock{broker: pubsub.NewBroker[Revision]()}
}

// Revision returns the current revision.
func (c *Clock) Revision() Revision { return c.rev }

// Subscribe streams an InvalidatedEvent for every write.
func (c *Clock) Subscribe(ctx context.Context) <-chan pubsub.Event[Revision] {
	return c.broker.Subscribe(ctx)
}

// Broker exposes the clock's broker for Bubble Tea listeners.
func (c *Clock) Broker() *pubsub.Broker[Revision] { return c.broker }

// Close shuts down the broker. Further writes still advance the revision.
func (c *Clock) Close() { c.broker.Close() }

func (c *Clock) bump(label string) Revision {
	c.rev++
	n := c.broker.Publish(pubsub.InvalidatedEvent, c.rev)
	log.Debug(log.CatTracked, "Tracked write", "cell", label, "revision", c.rev, "subscribers", n)
	return c.rev
}

// Cell is one tracked value.
type Cell[T any] struct {
	clock *Clock
	label string
	value T
	rev   Revision
}

// NewCell creates a cell on clock. Creating a cell is not a write.
func NewCell[T any](clock *Clock, v T) *Cell[T] {
	return &Cell[T]{clock: clock, value: v, rev: clock.Revision()}
}

// Named sets the label used in logs and returns c.
func (c *Cell[T]) Named(label string) *Cell[T] {
	c.label = label
	return c
}

// Get returns the current value.
func (c *Cell[T]) Get() T { return c.value }

// Set stores v and advances the clock.
func (c *Cell[T]) Set(v T) Revision {
	c.value = v
	c.rev = c.clock.bump(c.name())
	return c.rev
}

// Update applies fn to the current value and stores the result.
func (c *Cell[T]) Update(fn func(T) T) Revision {
	return c.Set(fn(c.value))
}

// Revision returns the clock revision of the last write to c.
func (c *Cell[T]) Revision() Revision { return c.rev }

// Value returns the current value as any. The renderer dereferences
// fields implementing Reader before showing them.
func (c *Cell[T]) Value() any { return c.value }

func (c *Cell[T]) name() string {
	if c.label != "" {
		return c.label
	}
	return fmt.Sprintf("%T", c.value)
}

func (c *Cell[T]) String() string {
	return fmt.Sprint(c.value)
}

// Reader is implemented by every Cell regardless of its type parameter.
type Reader interface {
	Value() any
}

var _ Reader = (*Cell[int])(nil)
