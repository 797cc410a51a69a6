package workqueue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ProduceFunc emits the payload for the next job. Returning a nil payload
// with a nil error skips the tick without enqueueing.
type ProduceFunc func(ctx context.Context) ([]byte, error)

// ProducerQueue is the part of Queue a producer needs.
type ProducerQueue interface {
	Enqueue(ctx context.Context, payload []byte) (string, error)
}

// Producer periodically generates jobs and enqueues them. It exists for load
// generation and demos; most applications call Enqueue directly instead.
type Producer struct {
	queue    ProducerQueue
	produce  ProduceFunc
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewProducer creates a producer that enqueues the output of produce on a
// fixed interval.
func NewProducer(queue ProducerQueue, produce ProduceFunc, opts ...ProducerOption) (*Producer, error) {
	if queue == nil {
		return nil, ErrQueueNil
	}
	if produce == nil {
		return nil, ErrProduceFuncNil
	}

	options := &producerOptions{
		interval: defaultPollInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Producer{
		queue:    queue,
		produce:  produce,
		interval: options.interval,
		logger:   options.logger,
	}, nil
}

// Start launches the produce loop in the background. It returns
// ErrAlreadyStarted if the producer is already running.
func (p *Producer) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx, p.done)

	p.logger.Info("producer started", slog.Duration("produce_interval", p.interval))
	return nil
}

// Stop cancels the produce loop. It returns ErrNotStarted if the producer is
// not running.
func (p *Producer) Stop() error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return ErrNotStarted
	}

	cancel()
	<-done

	p.logger.Info("producer stopped")
	return nil
}

// Run starts the producer and returns a function suitable for errgroup.
func (p *Producer) Run(ctx context.Context) func() error {
	return func() error {
		if err := p.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return p.Stop()
	}
}

func (p *Producer) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.produceOne(ctx); err != nil {
				p.logger.Error("produce failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (p *Producer) produceOne(ctx context.Context) error {
	payload, err := p.produce(ctx)
	if err != nil {
		return fmt.Errorf("produce payload: %w", err)
	}
	if payload == nil {
		return nil
	}

	id, err := p.queue.Enqueue(ctx, payload)
	if err != nil {
		return fmt.Errorf("enqueue produced job: %w", err)
	}

	p.logger.Debug("job enqueued", slog.String("job_id", id))
	return nil
}
