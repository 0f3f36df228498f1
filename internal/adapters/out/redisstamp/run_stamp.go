// Package redisstamp implements the run stamp store on Redis.
//
// A run stamp is a per-region marker that changes whenever the stop set of
// that region changes. The replanner reads the stamp before solving and
// re-reads it before applying the solution; a mismatch means a courier
// progressed a stop mid-solve and the stale plan must be discarded.
package redisstamp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRunStampStore keeps one stamp per region under the key
// "stops:{region}". A missing key reads as stamp zero.
type RedisRunStampStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRunStampStore creates a run stamp store backed by the given client.
func NewRedisRunStampStore(client *redis.Client) *RedisRunStampStore {
	return &RedisRunStampStore{
		client: client,
		now:    time.Now,
	}
}

func stampKey(region string) string {
	return fmt.Sprintf("stops:%s", region)
}

// Current returns the region's stamp, or zero when none has been written yet.
func (s *RedisRunStampStore) Current(ctx context.Context, region string) (int64, error) {
	stamp, err := s.client.Get(ctx, stampKey(region)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read run stamp for region %s: %w", region, err)
	}
	return stamp, nil
}

// Touch overwrites the region's stamp with the current wall clock in
// milliseconds and returns the written value.
func (s *RedisRunStampStore) Touch(ctx context.Context, region string) (int64, error) {
	stamp := s.now().UnixMilli()
	if err := s.client.Set(ctx, stampKey(region), stamp, 0).Err(); err != nil {
		return 0, fmt.Errorf("touch run stamp for region %s: %w", region, err)
	}
	return stamp, nil
}
