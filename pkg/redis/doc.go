// Package redis connects to Redis with go-redis for the Redis replay guard.
//
//	client, err := redis.Connect(ctx, redis.Config{
//	    ConnectionURL:  "redis://localhost:6379/0",
//	    RetryAttempts:  3,
//	    RetryInterval:  2 * time.Second,
//	    ConnectTimeout: 10 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	guard := replay.NewRedis(client)
//
// Connect fails with ErrFailedToParseRedisConnString for a bad URL and with
// ErrRedisNotReady when the server never answers.
package redis
