package ratelimiter

import (
	"context"
	"time"
)

// Store defines the interface for rate limit storage backends.
type Store interface {
	// ConsumeTokens attempts to consume the specified number of tokens.
	// Returns the remaining tokens and reset time.
	// If remaining is negative, the request should be denied.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}

// state is the persisted part of a token bucket.
type state struct {
	tokens     int
	lastRefill time.Time
}

// take refills s for the whole intervals elapsed since its last refill and
// then subtracts tokens if enough are left. A denied request leaves the
// bucket untouched and reports a negative remainder.
func take(s state, tokens int, cfg Config, now time.Time) (state, int) {
	elapsed := now.Sub(s.lastRefill)
	// Cap intervals to prevent integer overflow in high-capacity/low-rate scenarios
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := int(min(int64(elapsed/cfg.RefillInterval), maxIntervals))

	if intervals > 0 {
		s.tokens = min(s.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		s.lastRefill = now
	}

	remaining := s.tokens - tokens
	if remaining >= 0 {
		s.tokens = remaining
	}
	return s, remaining
}
