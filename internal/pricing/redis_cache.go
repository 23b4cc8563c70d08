package pricing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/pkg/logger"
)

// RedisCache is a read-through TTL cache backed by Redis, so cached prices
// survive restarts and are shared across instances.
type RedisCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCache creates a RedisCache on the given client.
func NewRedisCache(client *redis.Client, log *logger.Logger) *RedisCache {
	return &RedisCache{client: client, log: log}
}

// GetOrFetch returns the cached value for key if present, otherwise calls
// fetch and stores the result with the given TTL. Redis read errors are
// treated as misses; a failed write-back is logged and the fresh value is
// still returned.
func (c *RedisCache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) (float64, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		value, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr == nil {
			return value, nil
		}
		c.log.Warn(fmt.Sprintf("缓存键 %s 的值 %q 无法解析为价格, 视为未命中", key, raw))
	} else if err != redis.Nil {
		c.log.WithError(err).Warn(fmt.Sprintf("读取缓存键 %s 失败, 视为未命中", key))
	}

	value, err := fetch(ctx)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, key, strconv.FormatFloat(value, 'f', -1, 64), ttl).Err(); err != nil {
		// 写回失败不影响本次结果，下一次调用会重新拉取。
		c.log.WithError(err).Warn(fmt.Sprintf("写入缓存键 %s 失败", key))
	}
	return value, nil
}

var _ Cache = (*RedisCache)(nil)
