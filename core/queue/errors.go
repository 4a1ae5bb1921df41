package queue

import "errors"

var (
	// ErrQueueFull indicates no slot could be reserved within the enqueue
	// timeout. Expected under load; callers should treat it as "try again
	// later", never as fatal.
	ErrQueueFull = errors.New("queue: no free slot within timeout")

	// ErrNoRequest indicates a dequeue found nothing to consume within its
	// timeout. This is a normal idle poll result, including the benign case
	// where an availability signal fired but the queue was observed empty.
	ErrNoRequest = errors.New("queue: no request available")

	// ErrInvalidCapacity indicates a non-positive capacity was given to New.
	ErrInvalidCapacity = errors.New("queue: capacity must be positive")

	// ErrHealthcheckFailed wraps all healthcheck failures.
	ErrHealthcheckFailed = errors.New("queue: healthcheck failed")

	// ErrQueueSaturated indicates every slot is reserved.
	ErrQueueSaturated = errors.New("queue: all slots reserved")
)
