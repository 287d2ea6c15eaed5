package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyFeed = "markets:feed"

// Cache guarda o feed filtrado de mercados no Redis com TTL curto,
// poupando a API externa entre refreshes da UI.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func (c *Cache) GetFeed(ctx context.Context, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyFeed).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetFeed(ctx context.Context, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyFeed, b, ttl).Err()
}
