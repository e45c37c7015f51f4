package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agrilink-backend/internal/config"
	"agrilink-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 10 * time.Minute

// Cache keeps recent observations in Redis so a dashboard polling the same
// farm does not hammer the upstream APIs. A nil cache is a no-op.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis when REDIS_ADDR is configured; otherwise the
// cache stays disabled.
func NewCache(cfg *config.Config) *Cache {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.L().Warnf("redis unreachable, weather cache disabled: %v", err)
		return nil
	}

	return &Cache{client: client}
}

func cacheKey(lat, lon float64) string {
	// 3 decimals is ~100m, close enough to share an observation
	return fmt.Sprintf("weather:%.3f:%.3f", lat, lon)
}

func (c *Cache) Get(ctx context.Context, lat, lon float64) *Data {
	if c == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, cacheKey(lat, lon)).Bytes()
	if err != nil {
		return nil
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil
	}
	return &d
}

func (c *Cache) Set(ctx context.Context, lat, lon float64, d *Data) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(lat, lon), raw, cacheTTL).Err(); err != nil {
		logger.L().Warnf("weather cache write failed: %v", err)
	}
}
