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
	// TimelineAllKey indexes every post for the global feed
	TimelineAllKey = "timeline:all"

	// TimelineAuthorPrefix is the key prefix for per-author timelines
	TimelineAuthorPrefix = "timeline:author:"

	// TimelineCap is the maximum number of posts kept per timeline
	TimelineCap = 500

	// TimelineTTL is the TTL for timeline keys (7 days)
	TimelineTTL = 7 * 24 * time.Hour
)

// PostRef pairs a post ID with its creation timestamp score.
type PostRef struct {
	PostID    int64
	Timestamp int64 // Unix timestamp
}

// TimelineCache indexes post IDs by creation time for fast feed reads.
// Using an interface enables testing with mocks and potential future backends.
type TimelineCache interface {
	// AddPost indexes a post in the global timeline and its author's timeline.
	// Uses pipeline: ZADD + ZREMRANGEBYRANK (maintain cap) + EXPIRE (refresh TTL)
	AddPost(ctx context.Context, authorID, postID, timestamp int64) error

	// Get returns up to limit post IDs newest-first. A nil authorID reads
	// the global timeline.
	Get(ctx context.Context, authorID *int64, limit int) ([]int64, error)

	// Warm bulk-inserts post refs into a timeline.
	Warm(ctx context.Context, authorID *int64, refs []PostRef) error

	// Exists reports whether the timeline key is present. The feed service
	// warms the timeline from the post store when this returns false.
	Exists(ctx context.Context, authorID *int64) (bool, error)
}

// RedisTimelineCache implements TimelineCache using Redis Sorted Sets.
type RedisTimelineCache struct {
	client *redis.Client
}

// NewTimelineCache creates a TimelineCache backed by Redis.
func NewTimelineCache(client *redis.Client) TimelineCache {
	return &RedisTimelineCache{client: client}
}

func timelineKey(authorID *int64) string {
	if authorID == nil {
		return TimelineAllKey
	}
	return fmt.Sprintf("%s%d", TimelineAuthorPrefix, *authorID)
}

// AddPost indexes the post under both the global and the author timeline.
func (c *RedisTimelineCache) AddPost(ctx context.Context, authorID, postID, timestamp int64) error {
	member := strconv.FormatInt(postID, 10)
	z := redis.Z{Score: float64(timestamp), Member: member}

	pipe := c.client.Pipeline()
	for _, key := range []string{timelineKey(nil), timelineKey(&authorID)} {
		pipe.ZAdd(ctx, key, z)
		// Keep the newest TimelineCap entries, drop the rest
		pipe.ZRemRangeByRank(ctx, key, 0, int64(-TimelineCap-1))
		pipe.Expire(ctx, key, TimelineTTL)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		log.Printf("[TimelineCache] AddPost FAILED: author=%d post=%d err=%v", authorID, postID, err)
		return fmt.Errorf("add post to timeline: %w", err)
	}

	log.Printf("[TimelineCache] AddPost OK: author=%d post=%d timestamp=%d", authorID, postID, timestamp)
	return nil
}

// Get returns post IDs newest-first via ZREVRANGE.
func (c *RedisTimelineCache) Get(ctx context.Context, authorID *int64, limit int) ([]int64, error) {
	key := timelineKey(authorID)

	members, err := c.client.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		log.Printf("[TimelineCache] Get FAILED: key=%s err=%v", key, err)
		return nil, fmt.Errorf("get timeline: %w", err)
	}

	// Refresh TTL on access
	c.client.Expire(ctx, key, TimelineTTL)

	postIDs := make([]int64, len(members))
	for i, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse post id: %w", err)
		}
		postIDs[i] = id
	}

	return postIDs, nil
}

// Warm bulk-inserts post refs using a pipeline.
func (c *RedisTimelineCache) Warm(ctx context.Context, authorID *int64, refs []PostRef) error {
	if len(refs) == 0 {
		return nil
	}

	key := timelineKey(authorID)
	startTime := time.Now()

	members := make([]redis.Z, len(refs))
	for i, ref := range refs {
		members[i] = redis.Z{
			Score:  float64(ref.Timestamp),
			Member: strconv.FormatInt(ref.PostID, 10),
		}
	}

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, members...)
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-TimelineCap-1))
	pipe.Expire(ctx, key, TimelineTTL)

	_, err := pipe.Exec(ctx)
	if err != nil {
		log.Printf("[TimelineCache] Warm FAILED: key=%s refs=%d err=%v", key, len(refs), err)
		return fmt.Errorf("warm timeline: %w", err)
	}

	log.Printf("[TimelineCache] Warm OK: key=%s refs=%d duration=%v", key, len(refs), time.Since(startTime))
	return nil
}

// Exists checks if a timeline key is present.
func (c *RedisTimelineCache) Exists(ctx context.Context, authorID *int64) (bool, error) {
	key := timelineKey(authorID)

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("[TimelineCache] Exists FAILED: key=%s err=%v", key, err)
		return false, fmt.Errorf("check timeline exists: %w", err)
	}

	return exists > 0, nil
}
