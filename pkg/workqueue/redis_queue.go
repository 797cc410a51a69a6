package workqueue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisQueue implements Queue on top of a shared redis instance. All
// correctness is delegated to redis: single-key commands are atomic on their
// own, and the two multi-key transitions (claim and reclaim) run as optimistic
// WATCH/MULTI/EXEC transactions that retry on concurrent modification.
//
// Several producers, workers, and reclaimers in separate processes can safely
// share one queue as long as they use the same key prefix.
type RedisQueue struct {
	client    redis.UniversalClient
	keys      keys
	staleTime time.Duration
	now       func() time.Time
}

var _ Queue = (*RedisQueue)(nil)

// NewRedisQueue creates a queue backed by the given redis client.
func NewRedisQueue(client redis.UniversalClient, opts ...QueueOption) (*RedisQueue, error) {
	if client == nil {
		return nil, ErrClientNil
	}

	options := &queueOptions{
		keyPrefix: defaultKeyPrefix,
		staleTime: defaultStaleTime,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &RedisQueue{
		client:    client,
		keys:      keysForPrefix(options.keyPrefix),
		staleTime: options.staleTime,
		now:       options.now,
	}, nil
}

// Enqueue stores the payload under a fresh id, then appends the id to the
// pending queue. The payload write happens first so that any worker able to
// observe the id can always resolve it to a payload.
func (q *RedisQueue) Enqueue(ctx context.Context, payload []byte) (string, error) {
	id := uuid.New().String()

	if err := q.client.HSet(ctx, q.keys.values, id, payload).Err(); err != nil {
		return "", fmt.Errorf("store payload for job %s: %w", id, err)
	}
	if err := q.client.LPush(ctx, q.keys.pending, id).Err(); err != nil {
		return "", fmt.Errorf("append job %s to pending queue: %w", id, err)
	}

	return id, nil
}

// Dequeue pops the oldest pending id and records the claim in the working set
// as one conditional transaction. The pending list is watched, the head is
// read non-destructively, and the pop plus claim commit only if the list was
// not concurrently modified; on conflict the whole attempt is discarded and
// retried from scratch, so partial effects never leak.
func (q *RedisQueue) Dequeue(ctx context.Context) (string, error) {
	for {
		var id string

		err := q.client.Watch(ctx, func(tx *redis.Tx) error {
			// Head of the FIFO order is the right end: LPush appends left,
			// RPop removes right.
			head, err := tx.LIndex(ctx, q.keys.pending, -1).Result()
			if errors.Is(err, redis.Nil) {
				return nil // queue is empty
			}
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.RPop(ctx, q.keys.pending)
				pipe.ZAdd(ctx, q.keys.working, redis.Z{Score: q.timestamp(), Member: head})
				return nil
			})
			if err != nil {
				return err
			}

			id = head
			return nil
		}, q.keys.pending)

		if errors.Is(err, redis.TxFailedErr) {
			// Another claimant won the race; retry with fresh state.
			continue
		}
		if err != nil {
			return "", fmt.Errorf("claim pending job: %w", err)
		}
		return id, nil
	}
}

// Value returns the payload stored for the given job id.
func (q *RedisQueue) Value(ctx context.Context, id string) ([]byte, error) {
	payload, err := q.client.HGet(ctx, q.keys.values, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read payload for job %s: %w", id, err)
	}
	return payload, nil
}

// Record stores the worker's result, marking the job as completed.
func (q *RedisQueue) Record(ctx context.Context, id string, result []byte) error {
	if err := q.client.HSet(ctx, q.keys.results, id, result).Err(); err != nil {
		return fmt.Errorf("record result for job %s: %w", id, err)
	}
	return nil
}

// Result returns the result recorded for the given job id.
func (q *RedisQueue) Result(ctx context.Context, id string) ([]byte, error) {
	result, err := q.client.HGet(ctx, q.keys.results, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read result for job %s: %w", id, err)
	}
	return result, nil
}

// Reclaim removes all claims older than the stale time and requeues the ones
// without a recorded result. The working set is watched so that redundant
// reclaimers never pick up the same stale claims twice: whichever transaction
// commits first wins, the other aborts and retries against the already-pruned
// set. One cutoff per attempt covers both the range read and the range
// removal.
func (q *RedisQueue) Reclaim(ctx context.Context) error {
	for {
		err := q.client.Watch(ctx, func(tx *redis.Tx) error {
			cutoff := strconv.FormatFloat(q.timestamp()-q.staleTime.Seconds(), 'f', -1, 64)

			stale, err := tx.ZRangeByScore(ctx, q.keys.working, &redis.ZRangeBy{
				Min: "-inf",
				Max: cutoff,
			}).Result()
			if err != nil {
				return err
			}
			if len(stale) == 0 {
				return nil
			}

			recorded, err := tx.HMGet(ctx, q.keys.results, stale...).Result()
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.ZRemRangeByScore(ctx, q.keys.working, "-inf", cutoff)
				for i, id := range stale {
					if recorded[i] == nil {
						// No result: the worker died or stalled. Back to the
						// tail of the queue for another attempt.
						pipe.LPush(ctx, q.keys.pending, id)
					}
				}
				return nil
			})
			return err
		}, q.keys.working)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reclaim stale claims: %w", err)
		}
		return nil
	}
}

// timestamp is the claim-clock reading as fractional unix seconds, the score
// unit of the working set.
func (q *RedisQueue) timestamp() float64 {
	return float64(q.now().UnixNano()) / float64(time.Second)
}
