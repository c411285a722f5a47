// Package cache is a thin Redis layer for read-heavy endpoints.
//
// Every helper degrades to a no-op when Redis is not connected, so the
// server keeps working on a cold laptop without a Redis instance.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glowmart/glowmart/config"
	"github.com/glowmart/glowmart/pkg/metrics"
)

// RDB is the shared client, nil when Redis is unreachable.
var RDB *redis.Client

// Connect dials Redis using config values. An unreachable Redis is not
// fatal; callers fall through to Mongo.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}

	RDB = client
	return nil
}

// Close releases the client connection pool.
func Close() error {
	if RDB == nil {
		return nil
	}
	return RDB.Close()
}

// Get loads a JSON value into dest. Returns false on miss, error, or when
// Redis is not connected.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Result()
	if err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues(key).Inc()
	return true
}

// Set stores a JSON value with a TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(ctx, key, data, ttl).Err()
}

// Del removes keys, typically after a write invalidates them.
func Del(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}
