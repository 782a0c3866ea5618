// Package redis wraps go-redis for the few shared counters the API keeps.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/demonlist/config"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client is the subset of Redis the service depends on
type Client interface {
	IsEnabled() bool
	Ping(ctx context.Context) error
	Close() error
	// IncrWindow bumps the counter for key, starting a window of the
	// given length on first use. It returns the count inside the current
	// window and the time left until the window resets.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// incrWindow is atomic so concurrent first hits cannot leave a key without a TTL
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type client struct {
	rdb *redis.Client
}

// NewClient connects to Redis, or returns a disabled client when
// Redis.Enabled is false.
func NewClient(cfg *config.Config) (Client, error) {
	if !cfg.Redis.Enabled {
		logger.GetLogger().Info("Redis disabled, using in-process fallbacks")
		return Disabled(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})

	c := &client{rdb: rdb}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		logger.GetLogger().Error("Failed to connect to Redis",
			zap.String("address", cfg.RedisAddress()),
			zap.Error(err),
		)
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Successfully connected to Redis",
		zap.String("address", cfg.RedisAddress()),
		zap.Int("database", cfg.Redis.Database),
	)

	return c, nil
}

func (c *client) IsEnabled() bool { return true }

func (c *client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *client) Close() error {
	return c.rdb.Close()
}

func (c *client) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res, err := incrWindow.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("incr window %s: %w", key, err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("incr window %s: unexpected reply length %d", key, len(res))
	}

	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	return res[0], ttl, nil
}

// ErrDisabled is returned by every operation of a disabled client
var ErrDisabled = errors.New("redis is disabled")

type disabled struct{}

// Disabled returns a Client that reports itself disabled and fails every call
func Disabled() Client { return disabled{} }

func (disabled) IsEnabled() bool                { return false }
func (disabled) Ping(ctx context.Context) error { return ErrDisabled }
func (disabled) Close() error                   { return nil }

func (disabled) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return 0, 0, ErrDisabled
}
