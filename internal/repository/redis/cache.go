package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/haimng/Bestopia/internal/domain"
)

const (
	keyRandomReviews = "bestopia:random_reviews"
	keySitemapSlugs  = "bestopia:sitemap_slugs"
)

// ReviewCache caches the two expensive homepage/sitemap queries in Redis.
// Both entries are invalidated whenever a review is created or deleted.
type ReviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReviewCache creates a new Redis-backed review cache.
func NewReviewCache(client *redis.Client, ttl time.Duration) *ReviewCache {
	return &ReviewCache{
		client: client,
		ttl:    ttl,
	}
}

// GetRandom returns the cached random review selection, or nil on a miss.
func (c *ReviewCache) GetRandom(ctx context.Context) ([]domain.Review, error) {
	return c.getReviews(ctx, keyRandomReviews)
}

// SetRandom stores a random review selection with the configured TTL.
func (c *ReviewCache) SetRandom(ctx context.Context, reviews []domain.Review) error {
	return c.set(ctx, keyRandomReviews, reviews)
}

// GetSlugs returns the cached sitemap slug list, or nil on a miss.
func (c *ReviewCache) GetSlugs(ctx context.Context) ([]string, error) {
	data, err := c.client.Get(ctx, keySitemapSlugs).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", keySitemapSlugs, err)
	}

	var slugs []string
	if err := json.Unmarshal(data, &slugs); err != nil {
		return nil, fmt.Errorf("unmarshal cached slugs: %w", err)
	}

	return slugs, nil
}

// SetSlugs stores the sitemap slug list with the configured TTL.
func (c *ReviewCache) SetSlugs(ctx context.Context, slugs []string) error {
	return c.set(ctx, keySitemapSlugs, slugs)
}

// Invalidate drops both cached entries.
func (c *ReviewCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, keyRandomReviews, keySitemapSlugs).Err(); err != nil {
		return fmt.Errorf("redis del review cache: %w", err)
	}
	return nil
}

func (c *ReviewCache) getReviews(ctx context.Context, key string) ([]domain.Review, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var reviews []domain.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("unmarshal cached reviews: %w", err)
	}

	return reviews, nil
}

func (c *ReviewCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}
