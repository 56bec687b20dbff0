package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// FollowingCachePrefix is the key prefix for per-user following-ID sets
	FollowingCachePrefix = "following:user:"

	// FollowingCacheTTL bounds staleness if an invalidation is ever lost
	FollowingCacheTTL = 24 * time.Hour

	// followingCacheSentinel marks a cached-but-empty following list, so an
	// empty SET (which Redis would delete) is distinguishable from a miss
	followingCacheSentinel = "-"
)

// FollowingCache caches each user's following-ID list so feed assembly does
// not hit the follows table on every page. Using an interface enables testing
// with mocks and potential future backends.
type FollowingCache interface {
	// Get returns the cached following IDs. found=false means cache miss;
	// the caller should load from the store and Set.
	Get(ctx context.Context, userID int64) (ids []int64, found bool, err error)

	// Set stores the full following-ID list with TTL.
	Set(ctx context.Context, userID int64, ids []int64) error

	// Invalidate drops the cached list. Called on follow/unfollow.
	Invalidate(ctx context.Context, userID int64) error
}

// RedisFollowingCache implements FollowingCache using Redis Sets.
type RedisFollowingCache struct {
	client *redis.Client
}

// NewFollowingCache creates a FollowingCache backed by Redis.
func NewFollowingCache(client *redis.Client) FollowingCache {
	return &RedisFollowingCache{client: client}
}

func followingKey(userID int64) string {
	return fmt.Sprintf("%s%d", FollowingCachePrefix, userID)
}

func (c *RedisFollowingCache) Get(ctx context.Context, userID int64) ([]int64, bool, error) {
	key := followingKey(userID)

	members, err := c.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("get following cache: %w", err)
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if m == followingCacheSentinel {
			continue
		}
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			// Corrupt entry; treat as a miss so it gets rebuilt.
			log.Printf("[FollowingCache] corrupt member %q for user=%d, dropping key", m, userID)
			_ = c.client.Del(ctx, key).Err()
			return nil, false, nil
		}
		ids = append(ids, id)
	}

	return ids, true, nil
}

// Set replaces the cached list atomically: DEL + SADD + EXPIRE in a pipeline.
func (c *RedisFollowingCache) Set(ctx context.Context, userID int64, ids []int64) error {
	key := followingKey(userID)

	members := make([]interface{}, 0, len(ids)+1)
	members = append(members, followingCacheSentinel)
	for _, id := range ids {
		members = append(members, strconv.FormatInt(id, 10))
	}

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, FollowingCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set following cache: %w", err)
	}
	return nil
}

func (c *RedisFollowingCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, followingKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate following cache: %w", err)
	}
	return nil
}
