package config

import (
	"context"
	"time"

	"github.com/lexdesk/casework/pkg/repository/cache"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// User cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Cache holds CLI flags for the user directory cache
type Cache struct {
	backend         string
	redisURL        string
	ttl             time.Duration
	refreshInterval time.Duration
}

func (c *Cache) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "user-cache",
			Usage:       "User directory cache (none, memory or redis)",
			Value:       CacheNone,
			Category:    "Cache",
			Sources:     cli.EnvVars("CASEWORK_USER_CACHE"),
			Destination: &c.backend,
		},
		&cli.StringFlag{
			Name:        "redis-url",
			Usage:       "Redis URL for the user cache, e.g. redis://localhost:6379/0",
			Category:    "Cache",
			Sources:     cli.EnvVars("CASEWORK_REDIS_URL"),
			Destination: &c.redisURL,
		},
		&cli.DurationFlag{
			Name:        "user-cache-ttl",
			Usage:       "Lifetime of cached user entries",
			Value:       cache.DefaultTTL,
			Category:    "Cache",
			Sources:     cli.EnvVars("CASEWORK_USER_CACHE_TTL"),
			Destination: &c.ttl,
		},
		&cli.DurationFlag{
			Name:        "user-cache-refresh-interval",
			Usage:       "Interval of the background cache refresh, 0 disables it",
			Value:       10 * time.Minute,
			Category:    "Cache",
			Sources:     cli.EnvVars("CASEWORK_USER_CACHE_REFRESH_INTERVAL"),
			Destination: &c.refreshInterval,
		},
	}
}

// Enabled reports whether a cache backend is selected
func (c *Cache) Enabled() bool {
	return c.backend != "" && c.backend != CacheNone
}

// RefreshInterval returns the interval of the background refresh worker
func (c *Cache) RefreshInterval() time.Duration {
	return c.refreshInterval
}

// Configure returns the cache store for the selected backend, or nil when the
// cache is disabled. The closer releases the Redis connection.
func (c *Cache) Configure(ctx context.Context) (cache.Store, func(), error) {
	if c.ttl <= 0 && c.Enabled() {
		return nil, nil, goerr.Wrap(ErrInvalidDuration, "invalid user-cache-ttl", goerr.V("ttl", c.ttl.String()))
	}

	switch c.backend {
	case "", CacheNone:
		return nil, func() {}, nil

	case CacheMemory:
		logging.Default().Info("Using in-memory user cache", "ttl", c.ttl)
		return cache.NewMemoryStore(), func() {}, nil

	case CacheRedis:
		if c.redisURL == "" {
			return nil, nil, goerr.Wrap(ErrInvalidConfig, "redis-url is required when using redis user cache")
		}
		rdb, err := cache.NewRedisClient(ctx, c.redisURL)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to connect to redis")
		}
		logging.Default().Info("Using Redis user cache", "ttl", c.ttl)
		return cache.NewRedisStore(rdb), func() {
			if err := rdb.Close(); err != nil {
				logging.Default().Error("failed to close redis client", "error", err.Error())
			}
		}, nil

	default:
		return nil, nil, goerr.Wrap(ErrInvalidConfig, "invalid user cache backend", goerr.V(BackendKey, c.backend))
	}
}

// TTL returns the lifetime of cached entries
func (c *Cache) TTL() time.Duration {
	return c.ttl
}
