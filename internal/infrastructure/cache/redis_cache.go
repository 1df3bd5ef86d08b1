package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/pkg/apperrors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "loan-engine:schedule:"

// RedisCache stores schedules as JSON under keyPrefix+fingerprint.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "RedisScheduleCache"),
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]loan.ScheduleRow, bool, error) {
	payload, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.WrapCacheError(err, "failed to read schedule from redis")
	}

	var rows []loan.ScheduleRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		c.logger.WarnContext(ctx, "Dropping undecodable cache entry", "key", key, "error", err)
		c.client.Del(ctx, keyPrefix+key)
		return nil, false, nil
	}
	return rows, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, rows []loan.ScheduleRow) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return apperrors.WrapCacheError(err, "failed to encode schedule")
	}
	if err := c.client.Set(ctx, keyPrefix+key, payload, c.ttl).Err(); err != nil {
		return apperrors.WrapCacheError(err, "failed to write schedule to redis")
	}
	c.logger.DebugContext(ctx, "Cached schedule", "key", key, "rows", len(rows), "ttl", c.ttl)
	return nil
}
