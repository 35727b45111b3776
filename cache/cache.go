package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin JSON layer over Redis. All operations are best-effort from
// the caller's point of view: a miss and an error both mean "go to the
// database", and a failed invalidation is bounded by the entry's TTL.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// GetJSON loads key into dest. The second return is false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

func (c *Cache) GetString(ctx context.Context, key string) (string, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return s, err
}

func (c *Cache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DeleteByPattern removes every key matching the pattern via SCAN and
// returns the keys it deleted. Only cascade invalidation uses patterns;
// single-entity lookups are direct key reads.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) ([]string, error) {
	var deleted []string
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			return deleted, err
		}
		deleted = append(deleted, key)
	}
	return deleted, iter.Err()
}

// ClearLists drops every collection cache and its params fingerprint.
func (c *Cache) ClearLists(ctx context.Context) error {
	return c.Delete(ctx,
		AllMenus, MenusParams,
		AllSubMenus, SubMenusParams,
		AllDishes, DishesParams,
		AllMenusNested,
	)
}

// SetDiscounts replaces the discount table. No TTL: the sync job rewrites
// it on every run.
func (c *Cache) SetDiscounts(ctx context.Context, discounts map[string]float64) error {
	raw, err := json.Marshal(discounts)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Discounts, raw, 0).Err()
}

func (c *Cache) GetDiscounts(ctx context.Context) (map[string]float64, error) {
	raw, err := c.rdb.Get(ctx, Discounts).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	discounts := make(map[string]float64)
	if err := json.Unmarshal(raw, &discounts); err != nil {
		return nil, err
	}
	return discounts, nil
}
