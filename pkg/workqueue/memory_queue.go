package workqueue

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryQueue implements Queue in process memory for testing and local
// development. It mirrors the redis implementation's semantics exactly: FIFO
// pending order, timestamped claims, result presence as the completion
// marker, and requeued jobs going to the tail. A single mutex stands in for
// the store's atomicity.
type MemoryQueue struct {
	mu        sync.Mutex
	pending   []string // index 0 is the head of the FIFO order
	working   map[string]time.Time
	values    map[string][]byte
	results   map[string][]byte
	staleTime time.Duration
	now       func() time.Time
}

var _ Queue = (*MemoryQueue)(nil)

// NewMemoryQueue creates an in-memory queue.
func NewMemoryQueue(opts ...QueueOption) *MemoryQueue {
	options := &queueOptions{
		staleTime: defaultStaleTime,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &MemoryQueue{
		working:   make(map[string]time.Time),
		values:    make(map[string][]byte),
		results:   make(map[string][]byte),
		staleTime: options.staleTime,
		now:       options.now,
	}
}

// Enqueue stores the payload under a fresh id and appends the id to the tail
// of the pending queue.
func (q *MemoryQueue) Enqueue(_ context.Context, payload []byte) (string, error) {
	id := uuid.New().String()

	q.mu.Lock()
	defer q.mu.Unlock()

	q.values[id] = cloneBytes(payload)
	q.pending = append(q.pending, id)

	return id, nil
}

// Dequeue pops the head of the pending queue and records the claim.
func (q *MemoryQueue) Dequeue(_ context.Context) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return "", nil
	}

	id := q.pending[0]
	q.pending = q.pending[1:]
	q.working[id] = q.now()

	return id, nil
}

// Value returns the payload stored for the given job id.
func (q *MemoryQueue) Value(_ context.Context, id string) ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	payload, ok := q.values[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return cloneBytes(payload), nil
}

// Record stores the worker's result, marking the job as completed.
func (q *MemoryQueue) Record(_ context.Context, id string, result []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.results[id] = cloneBytes(result)
	return nil
}

// Result returns the result recorded for the given job id.
func (q *MemoryQueue) Result(_ context.Context, id string) ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	result, ok := q.results[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return cloneBytes(result), nil
}

// Reclaim drops every claim older than the stale time and requeues the ones
// without a recorded result, oldest claim first.
func (q *MemoryQueue) Reclaim(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cutoff := q.now().Add(-q.staleTime)

	type claim struct {
		id string
		at time.Time
	}
	var stale []claim
	for id, at := range q.working {
		if !at.After(cutoff) {
			stale = append(stale, claim{id: id, at: at})
		}
	}
	// Requeue in claim order, matching the score order of the redis range.
	sort.Slice(stale, func(i, j int) bool { return stale[i].at.Before(stale[j].at) })

	for _, c := range stale {
		delete(q.working, c.id)
		if _, done := q.results[c.id]; !done {
			q.pending = append(q.pending, c.id)
		}
	}

	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
