// Package ratelimit provides a token bucket limiter keyed by an arbitrary
// string, used to cap generation attempts per user. The store is an
// interface so production can move the state into a shared backend without
// changing call sites.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter is what call sites depend on.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Config defines the token bucket shape.
type Config struct {
	Capacity       int           // maximum tokens the bucket can hold
	RefillRate     int           // tokens added per refill interval
	RefillInterval time.Duration // how often tokens are added
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Result is the outcome of one rate limit check.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the next request, 0 if the
// request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Store is the storage backend for bucket state.
type Store interface {
	// ConsumeTokens attempts to consume tokens for key. A negative remaining
	// count means the request should be denied.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the state for key.
	Reset(ctx context.Context, key string) error
}

// Bucket implements Limiter over a Store.
type Bucket struct {
	store  Store
	config Config
}

func NewBucket(store Store, config Config) (*Bucket, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, config: config}, nil
}

func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, 1, b.config)
	if err != nil {
		return nil, err
	}
	return &Result{
		Limit:     b.config.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}
