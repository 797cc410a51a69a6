package workqueue

// keys holds the redis keys backing one queue instance. All four live under a
// common prefix so that several queues can share a redis database.
type keys struct {
	values  string // hash: job id -> payload
	pending string // list: job ids awaiting a worker, FIFO
	working string // sorted set: job id scored by claim unix time
	results string // hash: job id -> result
}

func keysForPrefix(prefix string) keys {
	return keys{
		values:  prefix + ":values",
		pending: prefix + ":pending",
		working: prefix + ":working",
		results: prefix + ":results",
	}
}
