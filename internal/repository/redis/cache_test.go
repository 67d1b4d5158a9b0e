package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haimng/Bestopia/internal/domain"
)

func setupTestCache(t *testing.T) *ReviewCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewReviewCache(client, time.Minute)
}

func TestReviewCache_RandomRoundTrip(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	miss, err := cache.GetRandom(ctx)
	require.NoError(t, err)
	assert.Nil(t, miss)

	reviews := []domain.Review{
		{ID: 1, Slug: "best-wireless-mice", Title: "Best Wireless Mice"},
		{ID: 2, Slug: "best-standing-desks", Title: "Best Standing Desks"},
	}
	require.NoError(t, cache.SetRandom(ctx, reviews))

	got, err := cache.GetRandom(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "best-wireless-mice", got[0].Slug)
}

func TestReviewCache_SlugsRoundTrip(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	slugs := []string{"best-wireless-mice", "best-standing-desks"}
	require.NoError(t, cache.SetSlugs(ctx, slugs))

	got, err := cache.GetSlugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, slugs, got)
}

func TestReviewCache_Invalidate(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetRandom(ctx, []domain.Review{{ID: 1}}))
	require.NoError(t, cache.SetSlugs(ctx, []string{"a"}))

	require.NoError(t, cache.Invalidate(ctx))

	reviews, err := cache.GetRandom(ctx)
	require.NoError(t, err)
	assert.Nil(t, reviews)

	slugs, err := cache.GetSlugs(ctx)
	require.NoError(t, err)
	assert.Nil(t, slugs)
}
