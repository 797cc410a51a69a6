package workqueue_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/workqueue/pkg/workqueue"
)

func TestNewProducer_Validation(t *testing.T) {
	t.Parallel()

	produce := func(ctx context.Context) ([]byte, error) { return []byte("x"), nil }

	t.Run("nil queue", func(t *testing.T) {
		t.Parallel()

		producer, err := workqueue.NewProducer(nil, produce)
		assert.ErrorIs(t, err, workqueue.ErrQueueNil)
		assert.Nil(t, producer)
	})

	t.Run("nil produce func", func(t *testing.T) {
		t.Parallel()

		producer, err := workqueue.NewProducer(workqueue.NewMemoryQueue(), nil)
		assert.ErrorIs(t, err, workqueue.ErrProduceFuncNil)
		assert.Nil(t, producer)
	})
}

func TestProducer_EnqueuesPeriodically(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := workqueue.NewMemoryQueue()

	var counter atomic.Int32
	producer, err := workqueue.NewProducer(queue,
		func(ctx context.Context) ([]byte, error) {
			return []byte(fmt.Sprintf("job-%d", counter.Add(1))), nil
		},
		workqueue.WithProduceInterval(10*time.Millisecond),
		workqueue.WithProducerLogger(discardLogger()))
	require.NoError(t, err)

	require.NoError(t, producer.Start(ctx))

	require.Eventually(t, func() bool {
		return counter.Load() >= 3
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, producer.Stop())

	// Jobs come out in the order they were produced.
	id, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	payload, err := queue.Value(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "job-1", string(payload))
}

func TestProducer_NilPayloadSkipsTick(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := workqueue.NewMemoryQueue()

	var ticks atomic.Int32
	producer, err := workqueue.NewProducer(queue,
		func(ctx context.Context) ([]byte, error) {
			ticks.Add(1)
			return nil, nil
		},
		workqueue.WithProduceInterval(10*time.Millisecond),
		workqueue.WithProducerLogger(discardLogger()))
	require.NoError(t, err)

	require.NoError(t, producer.Start(ctx))

	require.Eventually(t, func() bool {
		return ticks.Load() >= 2
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, producer.Stop())

	id, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Empty(t, id, "nil payloads must not be enqueued")
}
