package librarian

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring a librarian.
type Option func(*options)

type options struct {
	pollTimeout       time.Duration
	restCheckInterval time.Duration
	searchDelayMin    time.Duration
	searchDelayMax    time.Duration
	shutdownTimeout   time.Duration
	logger            *slog.Logger
}

// WithPollTimeout sets how long each dequeue waits while active.
func WithPollTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollTimeout = d
		}
	}
}

// WithRestCheckInterval sets how often a resting librarian re-checks the
// queue, as a safety net for a wake racing the rest transition.
func WithRestCheckInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.restCheckInterval = d
		}
	}
}

// WithSearchDelay sets the simulated catalog-search latency range.
// Zero values disable the delay, which tests rely on.
func WithSearchDelay(min, max time.Duration) Option {
	return func(o *options) {
		if min >= 0 && max >= min {
			o.searchDelayMin = min
			o.searchDelayMax = max
		}
	}
}

// WithShutdownTimeout sets how long Stop waits for the loop to finish.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithLogger sets the logger for librarian events. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
