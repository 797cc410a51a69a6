package workqueue

import "context"

// Queue is an at-least-once work queue. Producers submit payloads with
// Enqueue, workers claim jobs with Dequeue and report completion with Record,
// and a periodic actor calls Reclaim to return stalled jobs to the queue.
//
// A claimed job whose worker never records a result is considered stale once
// its claim is older than the configured stale time; the next Reclaim returns
// it to the pending queue for another worker. A job may therefore be processed
// more than once, but it is never silently lost.
type Queue interface {
	// Enqueue stores the payload and appends a freshly generated job id to
	// the tail of the pending queue. It returns the new id.
	Enqueue(ctx context.Context, payload []byte) (string, error)

	// Dequeue claims the oldest pending job and returns its id. The claim is
	// recorded with the current time as part of the same atomic step as the
	// removal, so no two callers ever claim the same id. An empty id with a
	// nil error means the queue is empty.
	Dequeue(ctx context.Context) (string, error)

	// Value returns the payload stored for the given job id, or
	// ErrJobNotFound if the id is unknown.
	Value(ctx context.Context, id string) ([]byte, error)

	// Record stores the worker's result for the given job id. The presence of
	// a result, whatever its content, marks the job as completed. Repeated
	// calls overwrite; the last write wins.
	Record(ctx context.Context, id string, result []byte) error

	// Result returns the result recorded for the given job id, or
	// ErrJobNotFound if no result has been recorded.
	Result(ctx context.Context, id string) ([]byte, error)

	// Reclaim removes every claim older than the stale time in one atomic
	// step, then returns each removed job without a recorded result to the
	// tail of the pending queue. Jobs with a result are dropped from
	// tracking. It is safe to run concurrently from redundant reclaimers.
	Reclaim(ctx context.Context) error
}
