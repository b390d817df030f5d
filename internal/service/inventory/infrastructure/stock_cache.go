// internal/service/inventory/infrastructure/stock_cache.go
package infrastructure

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"medisupply/internal/pkg/redis"
)

const (
	stockCacheKeyPrefix = "inventory:available:"

	// TTL 刻意很短：缓存只服务于建议性的 check 查询，
	// 预占路径永远直读数据库。
	stockCacheTTL = 5 * time.Second
)

// RedisStockCache 是 application.StockCache 的 Redis 实现（cache-aside）。
// 任何 Redis 故障都按未命中处理，绝不让缓存问题影响查询可用性。
type RedisStockCache struct {
	client *redis.Client
}

func NewRedisStockCache(client *redis.Client) *RedisStockCache {
	return &RedisStockCache{client: client}
}

func (c *RedisStockCache) GetAvailability(ctx context.Context, productIDs []string) map[string]int {
	result := map[string]int{}
	for _, id := range productIDs {
		val, ok, err := c.client.Get(ctx, stockCacheKeyPrefix+id)
		if err != nil {
			log.Warn().Err(err).Msg("stock cache read failed, falling back to storage")
			return result
		}
		if !ok {
			continue
		}
		qty, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		result[id] = qty
	}
	return result
}

func (c *RedisStockCache) SetAvailability(ctx context.Context, availability map[string]int) {
	for id, qty := range availability {
		if err := c.client.Set(ctx, stockCacheKeyPrefix+id, strconv.Itoa(qty), stockCacheTTL); err != nil {
			log.Warn().Err(err).Msg("stock cache write failed")
			return
		}
	}
}

func (c *RedisStockCache) Invalidate(ctx context.Context, productIDs []string) {
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, stockCacheKeyPrefix+id)
	}
	if err := c.client.Del(ctx, keys...); err != nil {
		log.Warn().Err(err).Msg("stock cache invalidation failed")
	}
}
