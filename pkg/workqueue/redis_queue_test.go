package workqueue_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/workqueue/pkg/workqueue"
)

// newTestRedisQueue connects to the redis instance named by TEST_REDIS_URL
// and builds a queue under a unique key prefix, cleaned up after the test.
// Tests are skipped when the variable is unset so the suite stays hermetic by
// default.
func newTestRedisQueue(t *testing.T, opts ...workqueue.QueueOption) *workqueue.RedisQueue {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping redis integration test")
	}

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := fmt.Sprintf("workqueue_test:%s", uuid.New().String())
	t.Cleanup(func() {
		ctx := context.Background()
		for _, suffix := range []string{"values", "pending", "working", "results"} {
			client.Del(ctx, prefix+":"+suffix)
		}
		client.Close()
	})

	queue, err := workqueue.NewRedisQueue(client, append([]workqueue.QueueOption{
		workqueue.WithKeyPrefix(prefix),
	}, opts...)...)
	require.NoError(t, err)

	return queue
}

func TestNewRedisQueue_NilClient(t *testing.T) {
	t.Parallel()

	queue, err := workqueue.NewRedisQueue(nil)
	assert.ErrorIs(t, err, workqueue.ErrClientNil)
	assert.Nil(t, queue)
}

func TestRedisQueue_FIFO(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := newTestRedisQueue(t)

	id1, err := queue.Enqueue(ctx, []byte("A"))
	require.NoError(t, err)
	id2, err := queue.Enqueue(ctx, []byte("B"))
	require.NoError(t, err)

	got, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, id1, got)

	got, err = queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, id2, got)

	got, err = queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisQueue_ValueAndResult(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := newTestRedisQueue(t)

	id, err := queue.Enqueue(ctx, []byte("payload"))
	require.NoError(t, err)

	payload, err := queue.Value(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), payload)

	_, err = queue.Value(ctx, "no-such-id")
	assert.ErrorIs(t, err, workqueue.ErrJobNotFound)

	_, err = queue.Result(ctx, id)
	assert.ErrorIs(t, err, workqueue.ErrJobNotFound)

	require.NoError(t, queue.Record(ctx, id, []byte("first")))
	require.NoError(t, queue.Record(ctx, id, []byte("second")))

	result, err := queue.Result(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), result)
}

func TestRedisQueue_MutualExclusion(t *testing.T) {
	t.Parallel()

	const jobs = 50
	const claimants = 8

	ctx := context.Background()
	queue := newTestRedisQueue(t)

	enqueued := make(map[string]bool, jobs)
	for i := 0; i < jobs; i++ {
		id, err := queue.Enqueue(ctx, []byte{byte(i)})
		require.NoError(t, err)
		enqueued[id] = true
	}

	claimed := make(chan string, jobs)
	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				id, err := queue.Dequeue(ctx)
				if err != nil || id == "" {
					return
				}
				claimed <- id
			}
		}()
	}
	wg.Wait()
	close(claimed)

	seen := make(map[string]bool, jobs)
	for id := range claimed {
		assert.False(t, seen[id], "job %s claimed twice", id)
		assert.True(t, enqueued[id], "claimed unknown job %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, jobs)
}

func TestRedisQueue_Recovery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	queue := newTestRedisQueue(t,
		workqueue.WithStaleTime(30*time.Second),
		workqueue.WithClock(clock.Now),
	)

	id, err := queue.Enqueue(ctx, []byte("C"))
	require.NoError(t, err)

	got, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, id, got)

	clock.Advance(31 * time.Second)
	require.NoError(t, queue.Reclaim(ctx))

	got, err = queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got, "stale unrecorded job must resurface")
}

func TestRedisQueue_CompletionSuppressesRecovery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	queue := newTestRedisQueue(t,
		workqueue.WithStaleTime(30*time.Second),
		workqueue.WithClock(clock.Now),
	)

	id, err := queue.Enqueue(ctx, []byte("payload"))
	require.NoError(t, err)

	got, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, id, got)

	require.NoError(t, queue.Record(ctx, id, []byte("done")))

	clock.Advance(31 * time.Second)
	require.NoError(t, queue.Reclaim(ctx))

	got, err = queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	payload, err := queue.Value(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), payload)

	result, err := queue.Result(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("done"), result)
}

func TestRedisQueue_ConcurrentReclaimers(t *testing.T) {
	t.Parallel()

	const jobs = 20

	ctx := context.Background()
	clock := newFakeClock()
	queue := newTestRedisQueue(t,
		workqueue.WithStaleTime(30*time.Second),
		workqueue.WithClock(clock.Now),
	)

	for i := 0; i < jobs; i++ {
		_, err := queue.Enqueue(ctx, []byte{byte(i)})
		require.NoError(t, err)
	}
	for i := 0; i < jobs; i++ {
		id, err := queue.Dequeue(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, id)
	}

	clock.Advance(31 * time.Second)

	// Redundant reclaimers racing over the same stale set must not duplicate
	// any job.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, queue.Reclaim(ctx))
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for {
		id, err := queue.Dequeue(ctx)
		require.NoError(t, err)
		if id == "" {
			break
		}
		assert.False(t, seen[id], "job %s requeued twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, jobs)
}
