package workqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ReclaimerQueue is the part of Queue the reclaimer needs.
type ReclaimerQueue interface {
	Reclaim(ctx context.Context) error
}

// Reclaimer periodically runs Reclaim on a queue in the background. It is the
// recovery half of the at-least-once guarantee: without a running reclaimer,
// jobs whose worker died stay claimed forever.
//
// Running more than one reclaimer against the same queue is safe; the queue's
// select-and-remove step is atomic, so redundant instances never requeue the
// same job twice.
type Reclaimer struct {
	queue    ReclaimerQueue
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReclaimer creates a reclaimer for the given queue.
func NewReclaimer(queue ReclaimerQueue, opts ...ReclaimerOption) (*Reclaimer, error) {
	if queue == nil {
		return nil, ErrQueueNil
	}

	options := &reclaimerOptions{
		interval: defaultTidyInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Reclaimer{
		queue:    queue,
		interval: options.interval,
		logger:   options.logger,
	}, nil
}

// Start launches the periodic reclaim loop in the background. It returns
// ErrAlreadyStarted if the reclaimer is already running.
func (r *Reclaimer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.run(ctx, r.done)

	r.logger.Info("reclaimer started", slog.Duration("tidy_interval", r.interval))
	return nil
}

// Stop cancels the reclaim loop and waits for an in-flight run to finish. It
// returns ErrNotStarted if the reclaimer is not running.
func (r *Reclaimer) Stop() error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return ErrNotStarted
	}

	cancel()
	<-done

	r.logger.Info("reclaimer stopped")
	return nil
}

// Run starts the reclaimer and returns a function suitable for errgroup.
func (r *Reclaimer) Run(ctx context.Context) func() error {
	return func() error {
		if err := r.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return r.Stop()
	}
}

func (r *Reclaimer) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.queue.Reclaim(ctx); err != nil {
				// Store errors are not retried here; the next tick gets a
				// fresh attempt.
				r.logger.Error("reclaim run failed", slog.String("error", err.Error()))
			}
		}
	}
}
