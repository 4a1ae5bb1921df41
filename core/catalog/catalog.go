package catalog

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dmitrymomot/librarium/core/gate"
)

var (
	// ErrUnavailable indicates the inventory was empty at checkout time.
	// A business outcome, not a failure; callers report it and continue.
	ErrUnavailable = errors.New("catalog: no books available")

	// ErrNegativeInventory indicates an invalid initial book count.
	ErrNegativeInventory = errors.New("catalog: initial book count must not be negative")
)

// Catalog is the shared inventory. The books counter is touched only while
// the gate is held: shared side for reads, exclusive side for checkouts.
type Catalog struct {
	gate  *gate.Gate
	books int

	checkouts atomic.Int64
	denials   atomic.Int64
}

// Stats provides checkout counters for observability and tests. The live
// book count is deliberately absent; read it through Books so the gate
// discipline holds.
type Stats struct {
	Checkouts int64 // Successful checkouts
	Denials   int64 // Checkouts denied on an empty inventory
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithGate shares an externally created gate, letting callers observe gate
// state alongside catalog operations. Defaults to a fresh gate.
func WithGate(g *gate.Gate) Option {
	return func(c *Catalog) {
		if g != nil {
			c.gate = g
		}
	}
}

// New creates a Catalog with the given initial inventory.
func New(initialBooks int, opts ...Option) (*Catalog, error) {
	if initialBooks < 0 {
		return nil, ErrNegativeInventory
	}

	c := &Catalog{
		gate:  gate.New(),
		books: initialBooks,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Read admits the caller as a shared reader and calls during with the
// current book count. The read hold spans the entire during call, so the
// count cannot change underneath it; the hold is released on every exit
// path, including a panicking during.
func (c *Catalog) Read(ctx context.Context, during func(books int)) error {
	if err := c.gate.BeginRead(ctx); err != nil {
		return err
	}
	defer c.gate.EndRead()

	if during != nil {
		during(c.books)
	}
	return nil
}

// Checkout removes one book under exclusive ownership and returns the
// remaining count. Returns ErrUnavailable when the inventory is empty,
// leaving the count untouched at zero. The exclusive hold is released on
// every exit path.
func (c *Catalog) Checkout(ctx context.Context) (int, error) {
	if err := c.gate.BeginWrite(ctx); err != nil {
		return 0, err
	}
	defer c.gate.EndWrite()

	if c.books == 0 {
		c.denials.Add(1)
		return 0, ErrUnavailable
	}

	c.books--
	c.checkouts.Add(1)
	return c.books, nil
}

// Books returns a point-in-time book count via a short read section.
func (c *Catalog) Books(ctx context.Context) (int, error) {
	var books int
	if err := c.Read(ctx, func(b int) { books = b }); err != nil {
		return 0, err
	}
	return books, nil
}

// Gate exposes the underlying gate for state snapshots.
func (c *Catalog) Gate() *gate.Gate {
	return c.gate
}

// Stats returns checkout counters.
// This method is thread-safe and can be called at any time.
func (c *Catalog) Stats() Stats {
	return Stats{
		Checkouts: c.checkouts.Load(),
		Denials:   c.denials.Load(),
	}
}
