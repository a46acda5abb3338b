package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// Set stores a value, logging instead of failing: pairing codes and ETags
// are best-effort caches.
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if Rdb == nil {
		return
	}
	if err := Rdb.Set(ctx, key, value, expiration).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("redis set failed")
	}
}

// GetUnmarshalledJSON reads a key and unmarshals its JSON value into out.
func GetUnmarshalledJSON(ctx context.Context, key string, out interface{}) error {
	if Rdb == nil {
		return redis.Nil
	}
	raw, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

// SnapshotETagKey names the cache slot for a screen's snapshot ETag.
func SnapshotETagKey(screenID int) string {
	return fmt.Sprintf("screen:%d:snapshot-etag", screenID)
}

// CachedSnapshotETag returns the last ETag served for a screen, if any.
func CachedSnapshotETag(ctx context.Context, screenID int) (string, bool) {
	if Rdb == nil {
		return "", false
	}
	etag, err := Rdb.Get(ctx, SnapshotETagKey(screenID)).Result()
	if err != nil {
		return "", false
	}
	return etag, true
}

// InvalidateSnapshot drops the cached snapshot ETag for a screen so the
// next player poll sees fresh data immediately.
func InvalidateSnapshot(ctx context.Context, screenID int) {
	if Rdb == nil {
		return
	}
	key := SnapshotETagKey(screenID)
	if err := Rdb.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to invalidate snapshot etag")
	}
}
