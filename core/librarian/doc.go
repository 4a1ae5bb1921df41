// Package librarian implements the single consumer that serves borrow
// requests. The librarian is a two-state machine: RESTING while the request
// queue is empty, ACTIVE while draining it. The first enqueue against a
// resting librarian triggers the wake transition (edge-triggered, so bursts
// of concurrent enqueues wake it exactly once); after observing the queue
// empty the librarian goes back to resting.
//
// For each request the librarian simulates a catalog search, checks one book
// out under the exclusive side of the readers-writer gate, reports the
// outcome, and releases the request's queue slot. Both the gate and the slot
// are released on every exit path, including a panic during processing.
//
// Lifecycle follows the Start/Stop/Run pattern:
//
//	lib, err := librarian.New(q, cat,
//		librarian.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(lib.Run(ctx))
//
//	// Producers wake the librarian after a successful enqueue:
//	lib.Wake()
package librarian
