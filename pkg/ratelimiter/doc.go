// Package ratelimiter implements token bucket rate limiting with an
// in-memory store and HTTP middleware.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: 12 * time.Second,
//	})
//	...
//	r.With(ratelimiter.Middleware(bucket, byIP, log)).Post("/auth/token", login)
//
// Denied requests get 429 with Retry-After and X-RateLimit-* headers and do
// not drain the bucket further.
package ratelimiter
