package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cinebook/booking-gateway/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisCommands are the commands the adapter sends. The go-redis clients and MockRedisClient implement them.
type RedisCommands interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	ExpireAt(ctx context.Context, key string, tm time.Time) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// newRedisClient returns a sentinel failover client when sentinel is enabled and a single node client otherwise
func newRedisClient(c config.RedisConfig) (RedisCommands, error) {
	switch c.Type {
	case config.DBTypeRedisMock:
		return NewMockRedisClient(), nil
	case config.DBTypeRedis:
	default:
		return nil, fmt.Errorf("unrecognized persistence type %v", c.Type)
	}
	if len(c.Addresses) == 0 {
		return nil, fmt.Errorf("no redis addresses provided")
	}
	opts := redis.UniversalOptions{
		Addrs:    c.Addresses[:1],
		Password: string(c.Password),
		DB:       c.DBIndex,
	}
	if c.IsSentinel {
		opts.Addrs = c.Addresses
		opts.MasterName = c.MasterName
		opts.SentinelPassword = string(c.Password)
	}
	return redis.NewUniversalClient(&opts), nil
}
