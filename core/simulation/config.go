package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/librarium/core/librarian"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("simulation: invalid config")

// Config holds the simulation parameters. Read once at startup, immutable
// thereafter. Designed for environment-based configuration using popular env
// parsing libraries.
type Config struct {
	Readers       int           `env:"SIM_READERS" envDefault:"3"`
	Borrowers     int           `env:"SIM_BORROWERS" envDefault:"3"`
	ArrivalSpread time.Duration `env:"SIM_ARRIVAL_SPREAD" envDefault:"2s"`
	InitialBooks  int           `env:"SIM_INITIAL_BOOKS" envDefault:"5"`
	QueueCapacity int           `env:"SIM_QUEUE_CAPACITY" envDefault:"4"`
	Duration      time.Duration `env:"SIM_DURATION" envDefault:"30s"`

	// Actor timing
	EnqueueTimeout  time.Duration `env:"SIM_ENQUEUE_TIMEOUT" envDefault:"2s"`
	ReadDelayMin    time.Duration `env:"SIM_READ_DELAY_MIN" envDefault:"500ms"`
	ReadDelayMax    time.Duration `env:"SIM_READ_DELAY_MAX" envDefault:"1500ms"`
	ReaderIdleMin   time.Duration `env:"SIM_READER_IDLE_MIN" envDefault:"2s"`
	ReaderIdleMax   time.Duration `env:"SIM_READER_IDLE_MAX" envDefault:"4s"`
	BorrowerIdleMin time.Duration `env:"SIM_BORROWER_IDLE_MIN" envDefault:"3s"`
	BorrowerIdleMax time.Duration `env:"SIM_BORROWER_IDLE_MAX" envDefault:"6s"`

	// Librarian configuration
	Librarian librarian.Config
}

// DefaultConfig returns the defaults used when no environment is present.
func DefaultConfig() Config {
	return Config{
		Readers:         3,
		Borrowers:       3,
		ArrivalSpread:   2 * time.Second,
		InitialBooks:    5,
		QueueCapacity:   4,
		Duration:        30 * time.Second,
		EnqueueTimeout:  2 * time.Second,
		ReadDelayMin:    500 * time.Millisecond,
		ReadDelayMax:    1500 * time.Millisecond,
		ReaderIdleMin:   2 * time.Second,
		ReaderIdleMax:   4 * time.Second,
		BorrowerIdleMin: 3 * time.Second,
		BorrowerIdleMax: 6 * time.Second,
		Librarian:       librarian.DefaultConfig(),
	}
}

// Validate checks that every parameter is usable. All counts and primary
// durations must be positive; delay ranges must not be inverted.
func (c Config) Validate() error {
	if c.Readers <= 0 {
		return fmt.Errorf("%w: readers must be positive, got %d", ErrInvalidConfig, c.Readers)
	}
	if c.Borrowers <= 0 {
		return fmt.Errorf("%w: borrowers must be positive, got %d", ErrInvalidConfig, c.Borrowers)
	}
	if c.ArrivalSpread <= 0 {
		return fmt.Errorf("%w: arrival spread must be positive, got %s", ErrInvalidConfig, c.ArrivalSpread)
	}
	if c.InitialBooks <= 0 {
		return fmt.Errorf("%w: initial books must be positive, got %d", ErrInvalidConfig, c.InitialBooks)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("%w: queue capacity must be positive, got %d", ErrInvalidConfig, c.QueueCapacity)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidConfig, c.Duration)
	}
	if c.EnqueueTimeout <= 0 {
		return fmt.Errorf("%w: enqueue timeout must be positive, got %s", ErrInvalidConfig, c.EnqueueTimeout)
	}

	for _, r := range []struct {
		name     string
		min, max time.Duration
	}{
		{"read delay", c.ReadDelayMin, c.ReadDelayMax},
		{"reader idle", c.ReaderIdleMin, c.ReaderIdleMax},
		{"borrower idle", c.BorrowerIdleMin, c.BorrowerIdleMax},
	} {
		if r.min < 0 || r.max < r.min {
			return fmt.Errorf("%w: %s range [%s, %s] is invalid", ErrInvalidConfig, r.name, r.min, r.max)
		}
	}

	return nil
}
