package simulation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/librarium/core/catalog"
	"github.com/dmitrymomot/librarium/core/librarian"
	"github.com/dmitrymomot/librarium/core/queue"
)

// Reader repeatedly enters the catalog's shared read section, lingers for a
// random interval, then idles. Readers only inspect shared state; they never
// mutate it.
type Reader struct {
	id      int
	catalog *catalog.Catalog
	cfg     Config
	logger  *slog.Logger
}

// Run loops until ctx is cancelled. Cancellation is the normal exit; Run
// never returns an error for business outcomes.
func (r *Reader) Run(ctx context.Context) error {
	// Stagger arrival across the configured spread.
	if !sleepCtx(ctx, randDuration(0, r.cfg.ArrivalSpread)) {
		return nil
	}

	for {
		err := r.catalog.Read(ctx, func(books int) {
			r.logger.InfoContext(ctx, "reader browsing catalog",
				slog.Int("reader_id", r.id),
				slog.Int("books", books))
			sleepCtx(ctx, randDuration(r.cfg.ReadDelayMin, r.cfg.ReadDelayMax))
		})
		if err != nil {
			// Shutdown while waiting for admission.
			return nil
		}

		r.logger.DebugContext(ctx, "reader finished reading",
			slog.Int("reader_id", r.id))

		if !sleepCtx(ctx, randDuration(r.cfg.ReaderIdleMin, r.cfg.ReaderIdleMax)) {
			return nil
		}
	}
}

// Borrower repeatedly submits borrow requests to the bounded queue and wakes
// the librarian on success. A full queue is reported and retried on the next
// cycle; it never stops the actor.
type Borrower struct {
	id        int
	queue     *queue.BoundedQueue
	librarian *librarian.Librarian
	cfg       Config
	logger    *slog.Logger
}

// Run loops until ctx is cancelled.
func (b *Borrower) Run(ctx context.Context) error {
	if !sleepCtx(ctx, randDuration(0, b.cfg.ArrivalSpread)) {
		return nil
	}

	for {
		req := queue.NewRequest(b.id)

		switch err := b.queue.Enqueue(ctx, req, b.cfg.EnqueueTimeout); {
		case err == nil:
			b.librarian.Wake()
			b.logger.InfoContext(ctx, "borrow request queued",
				slog.Int("borrower_id", b.id),
				slog.String("request_id", req.ID.String()),
				slog.Int("depth", b.queue.Len()))
		case errors.Is(err, queue.ErrQueueFull):
			b.logger.WarnContext(ctx, "request queue full, dropping request",
				slog.Int("borrower_id", b.id))
		default:
			// Shutdown while waiting for a slot.
			return nil
		}

		if !sleepCtx(ctx, randDuration(b.cfg.BorrowerIdleMin, b.cfg.BorrowerIdleMax)) {
			return nil
		}
	}
}
