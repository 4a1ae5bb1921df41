package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/librarium/core/logger"
)

// BoundedQueue is a thread-safe FIFO of borrow requests with a hard capacity
// limit. Safe for any number of concurrent producers and consumers.
//
// Two buffered channels carry the accounting: slots holds one token per
// reserved capacity unit (queued or in flight), avail holds exactly one
// signal per request that has been enqueued and not yet claimed. The FIFO
// storage itself sits behind a short-held mutex that is always released
// before any other blocking operation.
type BoundedQueue struct {
	mu    sync.Mutex
	items []Request

	slots chan struct{}
	avail chan struct{}

	logger *slog.Logger

	enqueued      atomic.Int64
	rejected      atomic.Int64
	dequeued      atomic.Int64
	spuriousWakes atomic.Int64
}

// Stats provides observability metrics for monitoring and tests.
type Stats struct {
	Depth         int   // Requests currently queued
	Capacity      int   // Maximum outstanding requests
	SlotsInUse    int   // Reserved slots (queued plus in-flight)
	Enqueued      int64 // Total successful enqueues
	Rejected      int64 // Total enqueues rejected as full
	Dequeued      int64 // Total successful dequeues
	SpuriousWakes int64 // Availability signals that found the queue empty
}

// Option configures a BoundedQueue.
type Option func(*BoundedQueue)

// WithLogger sets the logger for queue events. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *BoundedQueue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// New creates a BoundedQueue that admits at most capacity outstanding
// requests.
func New(capacity int, opts ...Option) (*BoundedQueue, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	q := &BoundedQueue{
		items:  make([]Request, 0, capacity),
		slots:  make(chan struct{}, capacity),
		avail:  make(chan struct{}, capacity),
		logger: logger.NewDiscard(), // No-op logger by default
	}

	for _, opt := range opts {
		opt(q)
	}

	return q, nil
}

// Enqueue appends req to the tail after reserving a slot. It blocks up to
// timeout for a slot to free; a timeout of zero or less tries once without
// blocking. Returns ErrQueueFull when no slot frees in time, or the
// context's error if ctx is cancelled first. On any failure the queue is
// left unchanged.
func (q *BoundedQueue) Enqueue(ctx context.Context, req Request, timeout time.Duration) error {
	if timeout <= 0 {
		select {
		case q.slots <- struct{}{}:
		default:
			q.rejected.Add(1)
			return ErrQueueFull
		}
	} else {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case q.slots <- struct{}{}:
		case <-timer.C:
			q.rejected.Add(1)
			return ErrQueueFull
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	q.mu.Lock()
	q.items = append(q.items, req)
	depth := len(q.items)
	q.mu.Unlock()

	q.enqueued.Add(1)

	// The held slot guarantees buffer space for exactly one signal; an
	// overflow here means the slot accounting is broken.
	select {
	case q.avail <- struct{}{}:
	default:
		panic("queue: availability signal overflow")
	}

	q.logger.DebugContext(ctx, "request enqueued",
		slog.String("request_id", req.ID.String()),
		slog.Int("borrower_id", req.BorrowerID),
		slog.Int("depth", depth))

	return nil
}

// Dequeue removes and returns the oldest request. It blocks up to timeout
// for an availability signal; a timeout of zero or less polls once without
// blocking. Returns ErrNoRequest on timeout and on a spurious wake (signal
// consumed but queue observed empty), or the context's error if ctx is
// cancelled first. ErrNoRequest is a normal idle result, not a failure.
func (q *BoundedQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Request, error) {
	if timeout <= 0 {
		select {
		case <-q.avail:
		default:
			return nil, ErrNoRequest
		}
	} else {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-q.avail:
		case <-timer.C:
			return nil, ErrNoRequest
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		q.spuriousWakes.Add(1)
		q.logger.DebugContext(ctx, "spurious availability signal, queue empty")
		return nil, ErrNoRequest
	}

	req := q.items[0]
	q.items = q.items[1:]
	depth := len(q.items)
	q.mu.Unlock()

	q.dequeued.Add(1)

	q.logger.DebugContext(ctx, "request dequeued",
		slog.String("request_id", req.ID.String()),
		slog.Int("borrower_id", req.BorrowerID),
		slog.Int("depth", depth))

	return &req, nil
}

// ReleaseSlot frees one reserved slot. Consumers call it once per dequeued
// request, after processing has fully finished, so the capacity bound covers
// work in flight. Panics if no slot is reserved.
func (q *BoundedQueue) ReleaseSlot() {
	select {
	case <-q.slots:
	default:
		panic("queue: ReleaseSlot called without a reserved slot")
	}
}

// Len returns the number of requests currently queued.
func (q *BoundedQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Capacity returns the maximum number of outstanding requests.
func (q *BoundedQueue) Capacity() int {
	return cap(q.slots)
}

// Stats returns current queue statistics for observability and monitoring.
// This method is thread-safe and can be called at any time.
func (q *BoundedQueue) Stats() Stats {
	q.mu.Lock()
	depth := len(q.items)
	q.mu.Unlock()

	return Stats{
		Depth:         depth,
		Capacity:      cap(q.slots),
		SlotsInUse:    len(q.slots),
		Enqueued:      q.enqueued.Load(),
		Rejected:      q.rejected.Load(),
		Dequeued:      q.dequeued.Load(),
		SpuriousWakes: q.spuriousWakes.Load(),
	}
}

// Healthcheck validates that the queue still has free slots. A saturated
// queue is degraded, not broken; producers are being rejected until the
// consumer catches up.
//
// The returned error can be checked using errors.Is:
//
//	if errors.Is(err, queue.ErrQueueSaturated) { ... }
func (q *BoundedQueue) Healthcheck(ctx context.Context) error {
	stats := q.Stats()

	if stats.SlotsInUse >= stats.Capacity {
		return errors.Join(ErrHealthcheckFailed, ErrQueueSaturated,
			fmt.Errorf("%d/%d slots reserved", stats.SlotsInUse, stats.Capacity))
	}

	return nil
}
