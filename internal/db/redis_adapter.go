package db

import (
	"context"
	"fmt"

	"github.com/cinebook/booking-gateway/internal/config"
	"github.com/cinebook/booking-gateway/internal/models"
)

// RedisAdapter persists gateway sessions and their backend tokens as redis hashes
type RedisAdapter struct {
	rdb       RedisCommands
	encryptor models.Encryptor
}

type RedisAdapterOption func(*RedisAdapter) error

func WithRedisConfig(c config.RedisConfig) RedisAdapterOption {
	return func(r *RedisAdapter) error {
		client, err := newRedisClient(c)
		if err != nil {
			return err
		}
		r.rdb = client
		return nil
	}
}

// WithRedisClient sets the client directly, mostly useful for tests
func WithRedisClient(client RedisCommands) RedisAdapterOption {
	return func(r *RedisAdapter) error {
		r.rdb = client
		return nil
	}
}

func WithEncryption(secretKey string) RedisAdapterOption {
	return func(r *RedisAdapter) error {
		encryptor, err := NewGCMEncryptor(secretKey)
		if err != nil {
			return err
		}
		r.encryptor = encryptor
		return nil
	}
}

// WithTokenEncryption enables encryption only when the config asks for it
func WithTokenEncryption(c config.TokenEncryptionConfig) RedisAdapterOption {
	return func(r *RedisAdapter) error {
		if !c.Enabled {
			return nil
		}
		return WithEncryption(string(c.SecretKey))(r)
	}
}

func NewRedisAdapter(options ...RedisAdapterOption) (*RedisAdapter, error) {
	adapter := &RedisAdapter{}
	for _, opt := range options {
		if err := opt(adapter); err != nil {
			return &RedisAdapter{}, err
		}
	}
	if adapter.rdb == nil {
		return &RedisAdapter{}, fmt.Errorf("redis client is not initialized")
	}
	return adapter, nil
}

func (r RedisAdapter) writeHash(ctx context.Context, key string, v any) error {
	hash, err := toHash(v)
	if err != nil {
		return err
	}
	return r.rdb.HSet(ctx, key, hash).Err()
}

func (r RedisAdapter) readHash(ctx context.Context, key string, output any) error {
	raw, err := r.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return err
	}
	return fromHash(raw, output)
}

func redisKey(prefix string, id string) string {
	return prefix + ":" + id
}
