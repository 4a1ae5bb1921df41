package librarian

import "errors"

var (
	// ErrAlreadyStarted indicates Start was called on a running librarian.
	ErrAlreadyStarted = errors.New("librarian: already started")

	// ErrNotStarted indicates Stop was called before Start.
	ErrNotStarted = errors.New("librarian: not started")

	// ErrHealthcheckFailed wraps any failing health criterion.
	ErrHealthcheckFailed = errors.New("librarian: healthcheck failed")

	// ErrNotRunning indicates the librarian loop is not running.
	ErrNotRunning = errors.New("librarian: not running")
)
