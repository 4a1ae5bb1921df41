package librarian

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/librarium/core/catalog"
	"github.com/dmitrymomot/librarium/core/logger"
	"github.com/dmitrymomot/librarium/core/queue"
)

// Inventory is the book store the librarian checks books out of.
// *catalog.Catalog is the production implementation; checkouts against an
// empty store report catalog.ErrUnavailable.
type Inventory interface {
	Checkout(ctx context.Context) (int, error)
}

// Librarian drains the request queue and mutates the inventory under
// exclusive gate ownership. There is one logical librarian per queue.
type Librarian struct {
	queue     *queue.BoundedQueue
	inventory Inventory

	// Configuration
	pollTimeout       time.Duration
	restCheckInterval time.Duration
	searchDelayMin    time.Duration
	searchDelayMax    time.Duration
	shutdownTimeout   time.Duration
	logger            *slog.Logger

	// State management
	state  atomic.Int32
	wake   chan struct{}
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Observability metrics
	served      atomic.Int64
	unavailable atomic.Int64
	faults      atomic.Int64
}

// LibrarianStats provides observability metrics for monitoring and debugging.
type LibrarianStats struct {
	State       State // Current scheduling state
	Served      int64 // Requests that received a book
	Unavailable int64 // Requests denied on an empty inventory
	Faults      int64 // Recovered panics during processing
	IsRunning   bool  // Whether the librarian loop is running
}

// New creates a Librarian that consumes from q and checks books out of inv.
func New(q *queue.BoundedQueue, inv Inventory, opts ...Option) (*Librarian, error) {
	if q == nil {
		return nil, errors.New("librarian: queue cannot be nil")
	}
	if inv == nil {
		return nil, errors.New("librarian: inventory cannot be nil")
	}

	// Default options
	o := &options{
		pollTimeout:       200 * time.Millisecond,
		restCheckInterval: 100 * time.Millisecond,
		searchDelayMin:    time.Second,
		searchDelayMax:    2 * time.Second,
		shutdownTimeout:   5 * time.Second,
		logger:            logger.NewDiscard(), // No-op logger by default
	}

	// Apply options
	for _, opt := range opts {
		opt(o)
	}

	return &Librarian{
		queue:             q,
		inventory:         inv,
		pollTimeout:       o.pollTimeout,
		restCheckInterval: o.restCheckInterval,
		searchDelayMin:    o.searchDelayMin,
		searchDelayMax:    o.searchDelayMax,
		shutdownTimeout:   o.shutdownTimeout,
		logger:            o.logger,
		wake:              make(chan struct{}, 1),
	}, nil
}

// NewFromConfig creates a Librarian from configuration.
// Additional options can override config values.
func NewFromConfig(cfg Config, q *queue.BoundedQueue, inv Inventory, opts ...Option) (*Librarian, error) {
	allOpts := append([]Option{
		WithPollTimeout(cfg.PollTimeout),
		WithRestCheckInterval(cfg.RestCheckInterval),
		WithSearchDelay(cfg.SearchDelayMin, cfg.SearchDelayMax),
		WithShutdownTimeout(cfg.ShutdownTimeout),
	}, opts...)

	return New(q, inv, allOpts...)
}

// Wake transitions a resting librarian to active. Edge-triggered: only the
// RESTING to ACTIVE transition fires the wake signal, so any number of
// concurrent producers cause exactly one wake. Safe to call at any time.
func (l *Librarian) Wake() {
	if l.state.CompareAndSwap(int32(StateResting), int32(StateActive)) {
		select {
		case l.wake <- struct{}{}:
		default:
		}
	}
}

// State returns the current scheduling state.
func (l *Librarian) State() State {
	return State(l.state.Load())
}

// Start runs the librarian loop. This is a blocking operation that runs until
// the context is cancelled. Use Run() for errgroup pattern or call this in a
// goroutine.
func (l *Librarian) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return ErrAlreadyStarted
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	l.mu.Unlock()

	defer close(l.done)

	l.logger.InfoContext(l.ctx, "librarian started",
		slog.Duration("poll_timeout", l.pollTimeout),
		slog.Int("queue_capacity", l.queue.Capacity()))

	for {
		if err := l.ctx.Err(); err != nil {
			l.logger.InfoContext(context.Background(), "librarian stopping")
			return err
		}

		switch State(l.state.Load()) {
		case StateResting:
			if err := l.rest(); err != nil {
				l.logger.InfoContext(context.Background(), "librarian stopping")
				return err
			}
		case StateActive:
			l.drain()
		}
	}
}

// Stop gracefully shuts down the librarian with a timeout.
// Returns an error if the shutdown timeout is exceeded.
func (l *Librarian) Stop() error {
	l.mu.Lock()
	if l.cancel == nil {
		l.mu.Unlock()
		return ErrNotStarted
	}
	cancel := l.cancel
	done := l.done
	l.cancel = nil
	l.mu.Unlock()

	cancel()

	select {
	case <-done:
		l.logger.InfoContext(context.Background(), "librarian stopped cleanly")
		return nil
	case <-time.After(l.shutdownTimeout):
		l.logger.WarnContext(context.Background(), "librarian shutdown timeout exceeded",
			slog.Duration("timeout", l.shutdownTimeout))
		return fmt.Errorf("shutdown timeout exceeded after %s", l.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the librarian, monitors context
// cancellation, and performs graceful shutdown when the context is cancelled.
func (l *Librarian) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- l.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = l.Stop() // Ignore stop error in normal shutdown
			<-errCh      // Wait for Start() to exit
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// rest parks the loop until a wake arrives. The periodic re-check covers the
// race where an enqueue lands between the queue-empty observation and the
// state store; without it that request would strand until the next enqueue.
func (l *Librarian) rest() error {
	l.logger.DebugContext(l.ctx, "librarian resting")

	ticker := time.NewTicker(l.restCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return l.ctx.Err()
		case <-l.wake:
			// Wake already flipped the state to active.
			l.logger.InfoContext(l.ctx, "librarian woken up",
				slog.Int("depth", l.queue.Len()))
			return nil
		case <-ticker.C:
			if l.queue.Len() > 0 {
				l.state.Store(int32(StateActive))
				l.logger.DebugContext(l.ctx, "librarian self-woke on non-empty queue",
					slog.Int("depth", l.queue.Len()))
				return nil
			}
		}
	}
}

// drain serves requests until the queue is observed empty, then transitions
// back to resting.
func (l *Librarian) drain() {
	for l.ctx.Err() == nil {
		req, err := l.queue.Dequeue(l.ctx, l.pollTimeout)
		if err != nil {
			if errors.Is(err, queue.ErrNoRequest) {
				if l.queue.Len() > 0 {
					continue
				}
				l.state.Store(int32(StateResting))
				// An enqueue may have slipped in after the empty
				// observation; re-arm the wake so it is not stranded.
				if l.queue.Len() > 0 {
					l.Wake()
				}
				return
			}
			return
		}

		l.process(req)
	}
}

// process serves a single request. The queue slot is released on every exit
// path, and a panic anywhere in the processing window is contained so one
// bad request cannot take the librarian down.
func (l *Librarian) process(req *queue.Request) {
	defer l.queue.ReleaseSlot()
	defer func() {
		if r := recover(); r != nil {
			l.faults.Add(1)
			l.logger.ErrorContext(l.ctx, "panic while processing borrow request",
				slog.String("request_id", req.ID.String()),
				slog.Int("borrower_id", req.BorrowerID),
				slog.Any("panic", r))
		}
	}()

	start := time.Now()
	l.logger.InfoContext(l.ctx, "processing borrow request",
		slog.String("request_id", req.ID.String()),
		slog.Int("borrower_id", req.BorrowerID),
		slog.Int("depth", l.queue.Len()))

	l.searchCatalog()

	remaining, err := l.inventory.Checkout(l.ctx)
	switch {
	case err == nil:
		l.served.Add(1)
		l.logger.InfoContext(l.ctx, "book handed to borrower",
			logger.Event("served"),
			slog.Int("borrower_id", req.BorrowerID),
			slog.Int("books_left", remaining),
			logger.Duration(time.Since(start)))
	case errors.Is(err, catalog.ErrUnavailable):
		l.unavailable.Add(1)
		l.logger.InfoContext(l.ctx, "no books available for borrower",
			logger.Event("unavailable"),
			slog.Int("borrower_id", req.BorrowerID))
	default:
		// Shutdown hit mid-checkout; the request is abandoned.
		l.logger.DebugContext(context.Background(), "borrow request abandoned",
			slog.Int("borrower_id", req.BorrowerID),
			slog.String("error", err.Error()))
	}
}

// searchCatalog simulates the time spent locating a book. Interruptible so
// shutdown is not delayed by the full search latency.
func (l *Librarian) searchCatalog() {
	d := l.searchDelayMin
	if l.searchDelayMax > l.searchDelayMin {
		d += time.Duration(rand.Int63n(int64(l.searchDelayMax - l.searchDelayMin)))
	}
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-l.ctx.Done():
	}
}

// Stats returns current librarian statistics for observability and
// monitoring. This method is thread-safe and can be called at any time.
func (l *Librarian) Stats() LibrarianStats {
	l.mu.Lock()
	isRunning := l.cancel != nil
	l.mu.Unlock()

	return LibrarianStats{
		State:       State(l.state.Load()),
		Served:      l.served.Load(),
		Unavailable: l.unavailable.Load(),
		Faults:      l.faults.Load(),
		IsRunning:   isRunning,
	}
}

// Healthcheck validates that the librarian loop is running.
// Returns nil if healthy, or an error describing the health issue.
// The returned error can be checked using errors.Is.
func (l *Librarian) Healthcheck(ctx context.Context) error {
	if !l.Stats().IsRunning {
		return errors.Join(ErrHealthcheckFailed, ErrNotRunning)
	}
	return nil
}
