package configs

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the process-wide Redis client. The caller owns the
// handle and closes it at shutdown.
func NewRedisClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
}
