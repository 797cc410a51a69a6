package workqueue

import "time"

// Config holds the tunables of the queue and its reclaimer.
//
// StaleTime must exceed the expected processing time of a job, otherwise live
// jobs are requeued while still being worked on. That only causes duplicate
// processing, never loss, but it wastes workers.
type Config struct {
	StaleTime    time.Duration `env:"WORKQUEUE_STALE_TIME" envDefault:"30s"`
	TidyInterval time.Duration `env:"WORKQUEUE_TIDY_INTERVAL" envDefault:"30s"`
	KeyPrefix    string        `env:"WORKQUEUE_KEY_PREFIX" envDefault:"workqueue"`
}
