// Package redis connects to a Redis server with retries and exposes a
// readiness check for it.
//
// Redis is optional: Config.Enabled reports whether REDIS_URL is set, and
// callers fall back to in-process state when it is not.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	if cfg.Enabled() {
//	    client, err := redis.Connect(ctx, cfg)
//	    if err != nil {
//	        return err
//	    }
//	    defer client.Close()
//	    checks = append(checks, redis.Healthcheck(client))
//	}
//
// Errors are joined with the underlying go-redis error, so both the sentinel
// and the cause match errors.Is.
package redis
