// Package ratelimiter provides token bucket rate limiting with in-memory and
// Redis storage plus an HTTP middleware.
//
// A Bucket holds Capacity tokens, gains RefillRate tokens every
// RefillInterval and spends one token per request. A request that needs more
// tokens than are left is denied and leaves the bucket as it was.
//
// # Usage
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       30,
//		RefillRate:     1,
//		RefillInterval: 2 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	r.Use(ratelimiter.Middleware(bucket, func(r *http.Request) string {
//		return resolver.IP(r)
//	}))
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every limited response, plus Retry-After when the
// request is rejected with 429. Requests whose key is empty pass through.
//
// # Storage
//
// MemoryStore keeps buckets in a map and drops the ones idle for an hour.
// RedisStore keeps each bucket in a hash and updates it with a Lua script,
// so several replicas behind a load balancer share one budget per key:
//
//	store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("upload:"))
//
// Redis failures are reported as ErrStoreUnavailable; the default middleware
// response for them is 503.
package ratelimiter
