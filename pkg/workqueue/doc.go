// Package workqueue provides a redis-backed work queue with at-least-once
// delivery: every enqueued job is eventually processed, at the cost of
// possible duplicate processing when a slow worker races the reclaimer.
//
// The package is organised around four components:
//
//   - Queue     — Enqueue, Dequeue, Value, Record, Result, Reclaim against a
//     shared store; RedisQueue is the production implementation, MemoryQueue
//     is a drop-in for tests and local development
//   - Reclaimer — periodically returns stalled jobs to the queue
//   - Worker    — polls the queue and dispatches jobs to a Handler
//   - Producer  — periodically generates jobs (load generation, demos)
//
// # State model
//
// Four collections under one key prefix hold the entire state:
//
//  1. values  — job id to payload, written once at enqueue time
//  2. pending — FIFO list of ids awaiting a worker
//  3. working — ids claimed by a worker, sorted by claim time
//  4. results — job id to result; presence of an entry, whatever its
//     content, is the completion signal
//
// A job moves pending → working when a worker claims it. If the worker
// records a result, the next reclaim run drops the job from tracking. If no
// result appears before the stale time elapses, the reclaim run returns the
// id to pending and another worker picks it up. There is no retry limit and
// no dead-letter path: a job that fails every attempt cycles forever.
//
// Pop-and-claim and the reclaimer's select-and-remove are optimistic
// WATCH/MULTI/EXEC transactions; on concurrent modification they retry
// transparently with no partial effects. Conflicts are an expected,
// self-resolving race, never surfaced as errors.
//
// # Usage
//
//	import (
//	    "context"
//
//	    "github.com/dmitrymomot/workqueue/pkg/workqueue"
//	)
//
//	func example(ctx context.Context, client redis.UniversalClient) error {
//	    queue, err := workqueue.NewRedisQueue(client,
//	        workqueue.WithKeyPrefix("emails"),
//	        workqueue.WithStaleTime(time.Minute))
//	    if err != nil {
//	        return err
//	    }
//
//	    id, err := queue.Enqueue(ctx, []byte("send welcome email"))
//	    if err != nil {
//	        return err
//	    }
//	    _ = id
//
//	    reclaimer, err := workqueue.NewReclaimer(queue,
//	        workqueue.WithTidyInterval(30*time.Second))
//	    if err != nil {
//	        return err
//	    }
//	    if err := reclaimer.Start(ctx); err != nil {
//	        return err
//	    }
//	    defer reclaimer.Stop()
//
//	    worker, err := workqueue.NewWorker(queue,
//	        func(ctx context.Context, id string, payload []byte) ([]byte, error) {
//	            return []byte("done"), nil
//	        })
//	    if err != nil {
//	        return err
//	    }
//	    if err := worker.Start(ctx); err != nil {
//	        return err
//	    }
//	    defer worker.Stop()
//
//	    return nil
//	}
//
// # Tuning
//
// Two durations govern recovery. The stale time (WithStaleTime) must exceed
// the expected processing time of a job, otherwise live jobs get requeued and
// processed twice. The tidy interval (WithTidyInterval) bounds how long a
// dead worker's job waits before resurfacing. Both default to 30 seconds and
// can be loaded from the environment via Config.
//
// # Errors
//
// Store connectivity failures are returned to the caller as wrapped errors;
// the package retries only concurrency conflicts, never outages. A worker
// crash is not an error anywhere in this package — it is the normal trigger
// for reclamation.
package workqueue
