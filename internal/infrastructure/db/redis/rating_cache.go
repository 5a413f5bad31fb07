package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ratingTTL = 10 * time.Minute

	// ratingNone marks a cached "title has no reviews" result so the
	// aggregation is not re-run on every read of an unreviewed title.
	ratingNone = "none"
)

// RatingCache caches a title's aggregate rating in Redis.
// Key format: rating:<title_id>
type RatingCache struct {
	client *redis.Client
}

// NewRatingCache creates a RatingCache wrapping the given Redis client.
func NewRatingCache(client *redis.Client) *RatingCache {
	return &RatingCache{client: client}
}

// Get returns the cached rating and whether the key was present. A present
// key with a nil rating means the title is known to have no reviews.
func (c *RatingCache) Get(ctx context.Context, titleID string) (*int, bool, error) {
	val, err := c.client.Get(ctx, c.key(titleID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("rating cache get: %w", err)
	}
	if val == ratingNone {
		return nil, true, nil
	}
	rating, err := strconv.Atoi(val)
	if err != nil {
		return nil, false, fmt.Errorf("rating cache decode: %w", err)
	}
	return &rating, true, nil
}

// Set caches the rating (expires after ratingTTL).
func (c *RatingCache) Set(ctx context.Context, titleID string, rating *int) error {
	val := ratingNone
	if rating != nil {
		val = strconv.Itoa(*rating)
	}
	return c.client.Set(ctx, c.key(titleID), val, ratingTTL).Err()
}

// Invalidate drops the cached rating; called on any review write.
func (c *RatingCache) Invalidate(ctx context.Context, titleID string) error {
	return c.client.Del(ctx, c.key(titleID)).Err()
}

func (c *RatingCache) key(titleID string) string {
	return "rating:" + titleID
}
