package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/librarium/core/catalog"
	"github.com/dmitrymomot/librarium/core/gate"
	"github.com/dmitrymomot/librarium/core/librarian"
	"github.com/dmitrymomot/librarium/core/logger"
	"github.com/dmitrymomot/librarium/core/queue"
)

// Simulation owns the shared resources (gate, catalog, request queue,
// librarian) and the actor sets that exercise them. Each actor receives only
// the handles it needs.
type Simulation struct {
	cfg    Config
	logger *slog.Logger

	gate      *gate.Gate
	catalog   *catalog.Catalog
	queue     *queue.BoundedQueue
	librarian *librarian.Librarian
}

// Report is the end-of-run statistics snapshot.
type Report struct {
	BooksRemaining  int
	PendingRequests int
	ActiveReaders   int
	Served          int64
	Unavailable     int64
	Rejected        int64
	ReadsAdmitted   int64
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"books remaining: %d, pending requests: %d, active readers: %d, served: %d, unavailable: %d, rejected: %d, reads admitted: %d",
		r.BooksRemaining, r.PendingRequests, r.ActiveReaders,
		r.Served, r.Unavailable, r.Rejected, r.ReadsAdmitted)
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger shared by all components and actors.
// Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Simulation) {
		if log != nil {
			s.logger = log
		}
	}
}

// New validates cfg and builds the shared resources.
func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:    cfg,
		logger: logger.NewDiscard(), // No-op logger by default
	}

	for _, opt := range opts {
		opt(s)
	}

	s.gate = gate.New()

	cat, err := catalog.New(cfg.InitialBooks, catalog.WithGate(s.gate))
	if err != nil {
		return nil, fmt.Errorf("simulation: failed to create catalog: %w", err)
	}
	s.catalog = cat

	q, err := queue.New(cfg.QueueCapacity,
		queue.WithLogger(s.logger.With(logger.Component("queue"))))
	if err != nil {
		return nil, fmt.Errorf("simulation: failed to create queue: %w", err)
	}
	s.queue = q

	lib, err := librarian.NewFromConfig(cfg.Librarian, s.queue, s.catalog,
		librarian.WithLogger(s.logger.With(logger.Component("librarian"))))
	if err != nil {
		return nil, fmt.Errorf("simulation: failed to create librarian: %w", err)
	}
	s.librarian = lib

	return s, nil
}

// Run drives the simulation for the configured duration, then winds all
// actors down and returns the final report. The passed context can cancel
// the run early (e.g. on SIGINT); that still counts as a clean finish.
func (s *Simulation) Run(ctx context.Context) (*Report, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Duration)
	defer cancel()

	s.logger.InfoContext(runCtx, "simulation starting",
		logger.Component("simulation"),
		slog.Int("readers", s.cfg.Readers),
		slog.Int("borrowers", s.cfg.Borrowers),
		slog.Int("initial_books", s.cfg.InitialBooks),
		slog.Int("queue_capacity", s.cfg.QueueCapacity),
		slog.Duration("run_duration", s.cfg.Duration))

	start := time.Now()
	eg, egCtx := errgroup.WithContext(runCtx)

	eg.Go(s.librarian.Run(egCtx))

	readerLog := s.logger.With(logger.Component("reader"))
	for i := 1; i <= s.cfg.Readers; i++ {
		r := &Reader{id: i, catalog: s.catalog, cfg: s.cfg, logger: readerLog}
		eg.Go(func() error { return r.Run(egCtx) })
	}

	borrowerLog := s.logger.With(logger.Component("borrower"))
	for i := 1; i <= s.cfg.Borrowers; i++ {
		b := &Borrower{id: i, queue: s.queue, librarian: s.librarian, cfg: s.cfg, logger: borrowerLog}
		eg.Go(func() error { return b.Run(egCtx) })
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("simulation: run failed: %w", err)
	}

	report := s.report()

	s.logger.InfoContext(context.Background(), "simulation finished",
		logger.Component("simulation"),
		logger.Elapsed(start),
		logger.Group("totals",
			slog.Int("books_remaining", report.BooksRemaining),
			slog.Int64("served", report.Served),
			slog.Int64("unavailable", report.Unavailable),
			slog.Int64("rejected", report.Rejected)))

	return report, nil
}

// report assembles the final statistics after all actors have stopped. The
// book count still goes through the gate's read side, with a short deadline
// in case an actor failed to release it.
func (s *Simulation) report() *Report {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	books, err := s.catalog.Books(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "could not read final book count",
			logger.Error(err))
	}

	gateStats := s.gate.Stats()
	libStats := s.librarian.Stats()
	queueStats := s.queue.Stats()

	return &Report{
		BooksRemaining:  books,
		PendingRequests: queueStats.Depth,
		ActiveReaders:   gateStats.ActiveReaders,
		Served:          libStats.Served,
		Unavailable:     libStats.Unavailable,
		Rejected:        queueStats.Rejected,
		ReadsAdmitted:   gateStats.ReadsAdmitted,
	}
}

// Healthcheck verifies the simulation's dependencies are functioning. It
// aggregates every component check in sequence and fails on the first error.
func (s *Simulation) Healthcheck(ctx context.Context) error {
	for _, check := range []func(context.Context) error{
		s.librarian.Healthcheck,
		s.queue.Healthcheck,
	} {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Queue exposes the request queue, mainly for tests.
func (s *Simulation) Queue() *queue.BoundedQueue { return s.queue }

// Catalog exposes the shared catalog, mainly for tests.
func (s *Simulation) Catalog() *catalog.Catalog { return s.catalog }

// Librarian exposes the consumer, mainly for tests.
func (s *Simulation) Librarian() *librarian.Librarian { return s.librarian }
