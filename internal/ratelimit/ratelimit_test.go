package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketAllowsUpToCapacity(t *testing.T) {
	store := NewMemoryStore()
	bucket, err := NewBucket(store, Config{Capacity: 3, RefillRate: 3, RefillInterval: time.Hour})
	assert.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := bucket.Allow(context.Background(), "user-1")
		assert.NoError(t, err)
		assert.True(t, result.Allowed())
	}

	result, err := bucket.Allow(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.False(t, result.Allowed())
	assert.Greater(t, result.RetryAfter(), time.Duration(0))
}

func TestBucketKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	bucket, _ := NewBucket(store, Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})

	first, _ := bucket.Allow(context.Background(), "user-1")
	assert.True(t, first.Allowed())
	denied, _ := bucket.Allow(context.Background(), "user-1")
	assert.False(t, denied.Allowed())

	other, _ := bucket.Allow(context.Background(), "user-2")
	assert.True(t, other.Allowed())
}

func TestBucketRefillsAfterInterval(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	bucket, _ := NewBucket(store, Config{Capacity: 2, RefillRate: 2, RefillInterval: time.Hour})

	bucket.Allow(context.Background(), "user-1")
	bucket.Allow(context.Background(), "user-1")
	denied, _ := bucket.Allow(context.Background(), "user-1")
	assert.False(t, denied.Allowed())

	// Half an interval is not enough
	current = current.Add(30 * time.Minute)
	denied, _ = bucket.Allow(context.Background(), "user-1")
	assert.False(t, denied.Allowed())

	// A full interval restores the bucket
	current = current.Add(31 * time.Minute)
	result, _ := bucket.Allow(context.Background(), "user-1")
	assert.True(t, result.Allowed())
	assert.Equal(t, 1, result.Remaining)
}

func TestBucketRefillCapsAtCapacity(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	bucket, _ := NewBucket(store, Config{Capacity: 2, RefillRate: 2, RefillInterval: time.Hour})
	bucket.Allow(context.Background(), "user-1")

	// Many idle intervals must not accumulate beyond capacity
	current = current.Add(10 * time.Hour)
	result, _ := bucket.Allow(context.Background(), "user-1")
	assert.True(t, result.Allowed())
	assert.Equal(t, 1, result.Remaining)
}

func TestBucketReset(t *testing.T) {
	store := NewMemoryStore()
	bucket, _ := NewBucket(store, Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})

	bucket.Allow(context.Background(), "user-1")
	denied, _ := bucket.Allow(context.Background(), "user-1")
	assert.False(t, denied.Allowed())

	assert.NoError(t, bucket.Reset(context.Background(), "user-1"))
	result, _ := bucket.Allow(context.Background(), "user-1")
	assert.True(t, result.Allowed())
}

func TestNewBucketValidatesConfig(t *testing.T) {
	_, err := NewBucket(NewMemoryStore(), Config{Capacity: 0, RefillRate: 1, RefillInterval: time.Hour})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBucket(NewMemoryStore(), Config{Capacity: 1, RefillRate: -1, RefillInterval: time.Hour})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBucket(NewMemoryStore(), Config{Capacity: 1, RefillRate: 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
