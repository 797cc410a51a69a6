package workqueue

import "errors"

// Common errors
var (
	// ErrClientNil is returned when a nil redis client is provided
	ErrClientNil = errors.New("redis client cannot be nil")

	// ErrQueueNil is returned when a nil queue is provided to an actor
	ErrQueueNil = errors.New("queue cannot be nil")

	// ErrHandlerNil is returned when a nil handler is provided to a worker
	ErrHandlerNil = errors.New("handler cannot be nil")

	// ErrProduceFuncNil is returned when a nil produce function is provided
	ErrProduceFuncNil = errors.New("produce function cannot be nil")

	// ErrJobNotFound is returned when no payload or result exists for a job id
	ErrJobNotFound = errors.New("job not found")

	// ErrAlreadyStarted is returned when Start is called on a running actor
	ErrAlreadyStarted = errors.New("already started")

	// ErrNotStarted is returned when Stop is called on a stopped actor
	ErrNotStarted = errors.New("not started")
)
