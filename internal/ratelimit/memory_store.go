package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucketState struct {
	tokens     int
	lastRefill time.Time
}

// MemoryStore keeps bucket state in process. Counts are lost on restart,
// which is acceptable for a best-effort limit.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState

	// now is swappable for tests
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucketState),
		now:     time.Now,
	}
}

func (ms *MemoryStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b, exists := ms.buckets[key]
	if !exists {
		b = &bucketState{tokens: config.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	// Refill whole intervals elapsed since the last refill.
	elapsed := now.Sub(b.lastRefill)
	if intervals := int(elapsed / config.RefillInterval); intervals > 0 {
		b.tokens += intervals * config.RefillRate
		if b.tokens > config.Capacity {
			b.tokens = config.Capacity
		}
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * config.RefillInterval)
	}

	resetAt := b.lastRefill.Add(config.RefillInterval)
	if b.tokens < tokens {
		return -1, resetAt, nil
	}

	b.tokens -= tokens
	return b.tokens, resetAt, nil
}

func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.buckets, key)
	return nil
}
