// Package queue provides a bounded, thread-safe FIFO of borrow requests with
// blocking-with-timeout producer and consumer operations.
//
// Capacity is accounted with slot permits: a successful Enqueue reserves one
// of the queue's slots and the slot stays reserved until the consumer calls
// ReleaseSlot after it has fully finished processing the dequeued request.
// The bound therefore covers outstanding work in flight, not just items
// currently sitting in the queue.
//
// Basic usage:
//
//	q, err := queue.New(4)
//	if err != nil {
//		return err
//	}
//
//	// Producer side
//	req := queue.NewRequest(borrowerID)
//	switch err := q.Enqueue(ctx, req, 2*time.Second); {
//	case errors.Is(err, queue.ErrQueueFull):
//		// expected under load, try again later
//	case err != nil:
//		return err
//	}
//
//	// Consumer side
//	req, err := q.Dequeue(ctx, 200*time.Millisecond)
//	if errors.Is(err, queue.ErrNoRequest) {
//		// normal idle poll, not a failure
//	}
//	// ... process ...
//	q.ReleaseSlot()
//
// Dequeue waits on an availability signal that fires exactly once per
// enqueued request. A signal that finds the queue empty on follow-up
// inspection (possible with competing consumers) is treated as a benign
// spurious wake and surfaces as ErrNoRequest.
package queue
