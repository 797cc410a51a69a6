// Package redis connects the work queue to its backing store.
//
// It wraps the go-redis client with a `Connect` helper that retries the
// initial dial, and a `Healthcheck` probe for liveness and readiness
// endpoints. Configuration comes from the environment via the Config struct
// and github.com/caarlos0/env.
//
// # Usage
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// The returned client satisfies redis.UniversalClient and plugs directly into
// workqueue.NewRedisQueue.
package redis
