package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix  = "profile:%d"
	HotnessKeyPrefix  = "hotness:%d"
	NewsKey           = "news:items"
	FeedPageKeyPrefix = "feed:recent:%d:%d"

	feedPagePattern = "feed:recent:*"
)

const (
	ProfileTTL = 5 * time.Minute
	HotnessTTL = 1 * time.Minute
	NewsTTL    = 10 * time.Minute
	FeedTTL    = 30 * time.Second
)

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func HotnessKey(userID uint) string {
	return fmt.Sprintf(HotnessKeyPrefix, userID)
}

func FeedPageKey(limit, offset int) string {
	return fmt.Sprintf(FeedPageKeyPrefix, limit, offset)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePattern deletes every key matching a glob pattern via SCAN, so
// keys parameterized by paging can be dropped in one call.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID))
}

// InvalidateFeed drops every cached recent-posts page. Every post or vote
// mutation calls this so the next compose cycle re-reads everything; there
// is no incremental patching of cached state.
func InvalidateFeed(ctx context.Context) {
	InvalidatePattern(ctx, feedPagePattern)
}

func InvalidateHotness(ctx context.Context, userID uint) {
	Invalidate(ctx, HotnessKey(userID))
}
