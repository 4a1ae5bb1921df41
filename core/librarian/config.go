package librarian

import "time"

// Config holds librarian configuration.
// Designed for environment-based configuration using popular env parsing libraries.
type Config struct {
	PollTimeout       time.Duration `env:"LIBRARIAN_POLL_TIMEOUT" envDefault:"200ms"`
	RestCheckInterval time.Duration `env:"LIBRARIAN_REST_CHECK_INTERVAL" envDefault:"100ms"`
	SearchDelayMin    time.Duration `env:"LIBRARIAN_SEARCH_DELAY_MIN" envDefault:"1s"`
	SearchDelayMax    time.Duration `env:"LIBRARIAN_SEARCH_DELAY_MAX" envDefault:"2s"`
	ShutdownTimeout   time.Duration `env:"LIBRARIAN_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// DefaultConfig returns the defaults used when no environment is present.
func DefaultConfig() Config {
	return Config{
		PollTimeout:       200 * time.Millisecond,
		RestCheckInterval: 100 * time.Millisecond,
		SearchDelayMin:    time.Second,
		SearchDelayMax:    2 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}
