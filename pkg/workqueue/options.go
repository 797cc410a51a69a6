package workqueue

import (
	"log/slog"
	"time"
)

const (
	defaultKeyPrefix    = "workqueue"
	defaultStaleTime    = 30 * time.Second
	defaultTidyInterval = 30 * time.Second
	defaultPollInterval = time.Second
)

// QueueOption is a functional option for configuring a queue
type QueueOption func(*queueOptions)

type queueOptions struct {
	keyPrefix string
	staleTime time.Duration
	now       func() time.Time
}

// WithKeyPrefix sets the redis key prefix under which the queue stores its
// four collections. Ignored by the in-memory queue.
func WithKeyPrefix(prefix string) QueueOption {
	return func(o *queueOptions) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}

// WithStaleTime sets how old a claim must be before Reclaim considers the
// worker dead and returns the job to the pending queue.
func WithStaleTime(d time.Duration) QueueOption {
	return func(o *queueOptions) {
		if d > 0 {
			o.staleTime = d
		}
	}
}

// WithClock overrides the time source used for claim timestamps and staleness
// cutoffs. Intended for tests.
func WithClock(now func() time.Time) QueueOption {
	return func(o *queueOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// ReclaimerOption is a functional option for configuring a reclaimer
type ReclaimerOption func(*reclaimerOptions)

type reclaimerOptions struct {
	interval time.Duration
	logger   *slog.Logger
}

// WithTidyInterval sets how often the reclaimer runs Reclaim
func WithTidyInterval(d time.Duration) ReclaimerOption {
	return func(o *reclaimerOptions) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithReclaimerLogger sets the logger for the reclaimer
func WithReclaimerLogger(logger *slog.Logger) ReclaimerOption {
	return func(o *reclaimerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WorkerOption is a functional option for configuring a worker
type WorkerOption func(*workerOptions)

type workerOptions struct {
	pollInterval time.Duration
	logger       *slog.Logger
}

// WithPollInterval sets how often the worker checks for a pending job
func WithPollInterval(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithWorkerLogger sets the logger for the worker
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(o *workerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// ProducerOption is a functional option for configuring a producer
type ProducerOption func(*producerOptions)

type producerOptions struct {
	interval time.Duration
	logger   *slog.Logger
}

// WithProduceInterval sets how often the producer emits a new job
func WithProduceInterval(d time.Duration) ProducerOption {
	return func(o *producerOptions) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithProducerLogger sets the logger for the producer
func WithProducerLogger(logger *slog.Logger) ProducerOption {
	return func(o *producerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
