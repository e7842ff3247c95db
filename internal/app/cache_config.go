package app

import (
	"strings"

	"github.com/nikhil00shinde/pokemon-api/internal/cache"
)

// RedisStoreConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisStoreConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  c.Redis.Address(),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
	}
}
