package workqueue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Handler processes one job: it receives the job id and payload and returns
// the result to record. Returning an error (or panicking) leaves the job
// unrecorded, so the reclaimer will eventually return it to the queue for
// another attempt. There is no retry count: a job that fails every attempt is
// requeued forever.
type Handler func(ctx context.Context, id string, payload []byte) ([]byte, error)

// WorkerQueue is the part of Queue a worker needs.
type WorkerQueue interface {
	Dequeue(ctx context.Context) (string, error)
	Value(ctx context.Context, id string) ([]byte, error)
	Record(ctx context.Context, id string, result []byte) error
}

// Worker polls the queue in the background and dispatches claimed jobs to a
// handler, recording the handler's result on success.
type Worker struct {
	queue    WorkerQueue
	handler  Handler
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWorker creates a worker that feeds jobs from the queue to the handler.
func NewWorker(queue WorkerQueue, handler Handler, opts ...WorkerOption) (*Worker, error) {
	if queue == nil {
		return nil, ErrQueueNil
	}
	if handler == nil {
		return nil, ErrHandlerNil
	}

	options := &workerOptions{
		pollInterval: defaultPollInterval,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Worker{
		queue:    queue,
		handler:  handler,
		interval: options.pollInterval,
		logger:   options.logger,
	}, nil
}

// Start launches the polling loop in the background. It returns
// ErrAlreadyStarted if the worker is already running.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(ctx, w.done)

	w.logger.Info("worker started", slog.Duration("poll_interval", w.interval))
	return nil
}

// Stop cancels the polling loop and waits for an in-flight job to finish. It
// returns ErrNotStarted if the worker is not running.
func (w *Worker) Stop() error {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return ErrNotStarted
	}

	cancel()
	<-done

	w.logger.Info("worker stopped")
	return nil
}

// Run starts the worker and returns a function suitable for errgroup.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return w.Stop()
	}
}

func (w *Worker) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.processNext(ctx); err != nil {
				w.logger.Error("job processing failed", slog.String("error", err.Error()))
			}
		}
	}
}

// processNext claims at most one job and runs it through the handler. A
// handler failure is not an error here: the job simply stays unrecorded until
// the reclaimer resurfaces it.
func (w *Worker) processNext(ctx context.Context) error {
	id, err := w.queue.Dequeue(ctx)
	if err != nil {
		return fmt.Errorf("dequeue: %w", err)
	}
	if id == "" {
		return nil
	}

	payload, err := w.queue.Value(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve payload for job %s: %w", id, err)
	}

	result, err := w.invoke(ctx, id, payload)
	if err != nil {
		w.logger.Warn("handler failed, job left for reclaim",
			slog.String("job_id", id),
			slog.String("error", err.Error()))
		return nil
	}

	if err := w.queue.Record(ctx, id, result); err != nil {
		return fmt.Errorf("record result for job %s: %w", id, err)
	}

	w.logger.Debug("job completed", slog.String("job_id", id))
	return nil
}

func (w *Worker) invoke(ctx context.Context, id string, payload []byte) (result []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in handler: %v", r)
		}
	}()
	return w.handler(ctx, id, payload)
}
