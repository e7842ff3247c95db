package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.True(t, cfg.Server.RateLimit.Enabled)
	require.Equal(t, 100, cfg.Server.RateLimit.MaxRequests)
	require.Equal(t, time.Minute, cfg.Server.RateLimit.Window)

	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 10, cfg.Database.Pool.MaxOpenConns)
	require.Equal(t, 5*time.Second, cfg.Database.Pool.ConnectTimeout)

	require.Equal(t, 30*time.Second, cfg.Cache.ListTTL)
	require.False(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, "127.0.0.1:6379", cfg.Cache.Redis.Address())

	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	contents := []byte(`
server:
  port: 8080
database:
  driver: postgres
  postgres:
    host: db.internal
    username: pokeapi
    password: secret
cache:
  list_ttl: 45s
  redis:
    enabled: true
    host: redis.internal
    port: 6380
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), contents, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	require.Equal(t, 45*time.Second, cfg.Cache.ListTTL)
	require.True(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, "redis.internal:6380", cfg.Cache.Redis.Address())
}

func TestRedisStoreConfigConversion(t *testing.T) {
	cfg := CacheConfig{
		Redis: RedisCacheConfig{
			Host:     " redis.internal ",
			Port:     6380,
			Username: " cacheuser ",
			Password: "pw",
			DB:       2,
			Timeout:  3 * time.Second,
		},
	}

	rc := cfg.RedisStoreConfig()
	require.Equal(t, "cacheuser", rc.Username)
	require.Equal(t, "pw", rc.Password)
	require.Equal(t, 2, rc.DB)
	require.Equal(t, 3*time.Second, rc.Timeout)
}
