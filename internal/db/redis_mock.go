package db

import (
	"context"
	"encoding"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient implements RedisCommands in memory.
// Only suitable for testing and local development.
// Integer results are always 1 regardless of how many records were affected. Contexts are ignored.
type MockRedisClient struct {
	lock    sync.Mutex
	store   map[string]map[string]string
	expires map[string]time.Time
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		store:   map[string]map[string]string{},
		expires: map[string]time.Time{},
	}
}

func convertValuesToMap(values ...any) (map[string]string, error) {
	if len(values) == 1 {
		if hash, ok := values[0].(map[string]any); ok {
			values = make([]any, 0, 2*len(hash))
			for k, v := range hash {
				values = append(values, k, v)
			}
		}
	}
	if len(values)%2 != 0 {
		return map[string]string{}, fmt.Errorf("number of provided values must be even")
	}
	output := map[string]string{}
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return map[string]string{}, fmt.Errorf("hash field names must be strings")
		}
		switch val := values[i+1].(type) {
		case string:
			output[key] = val
		case encoding.TextMarshaler:
			raw, err := val.MarshalText()
			if err != nil {
				return map[string]string{}, err
			}
			output[key] = string(raw)
		default:
			output[key] = fmt.Sprint(val)
		}
	}
	return output, nil
}

// evict removes the key if it has expired, the lock must be held
func (m *MockRedisClient) evict(key string) {
	expiresAt, found := m.expires[key]
	if found && time.Now().After(expiresAt) {
		delete(m.store, key)
		delete(m.expires, key)
	}
}

func (m *MockRedisClient) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	m.lock.Lock()
	defer m.lock.Unlock()
	res := redis.IntCmd{}
	val, err := convertValuesToMap(values...)
	if err != nil {
		res.SetErr(err)
		return &res
	}
	m.evict(key)
	hash, found := m.store[key]
	if !found {
		hash = map[string]string{}
		m.store[key] = hash
	}
	for k, v := range val {
		hash[k] = v
	}
	res.SetVal(1)
	return &res
}

func (m *MockRedisClient) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.evict(key)
	output := map[string]string{}
	for k, v := range m.store[key] {
		output[k] = v
	}
	res := redis.MapStringStringCmd{}
	res.SetVal(output)
	return &res
}

func (m *MockRedisClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, k := range keys {
		delete(m.store, k)
		delete(m.expires, k)
	}
	res := redis.IntCmd{}
	res.SetVal(1)
	return &res
}

func (m *MockRedisClient) ExpireAt(_ context.Context, key string, tm time.Time) *redis.BoolCmd {
	m.lock.Lock()
	defer m.lock.Unlock()
	res := redis.BoolCmd{}
	m.evict(key)
	if _, found := m.store[key]; !found {
		res.SetVal(false)
		return &res
	}
	m.expires[key] = tm
	res.SetVal(true)
	return &res
}
