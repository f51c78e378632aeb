// Package cache is a small JSON key/value cache. It talks to Redis when
// Connect succeeds and keeps an in-process TTL map otherwise, so sessions and
// the category cache work on a laptop with nothing else running.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/pcbuilder/config"
	"github.com/shashiranjanraj/pcbuilder/pkg/metrics"
)

// RDB is nil until Connect succeeds.
var RDB *redis.Client

// Connect initialises the Redis client and verifies it with a ping. On error
// RDB stays nil and the memory store keeps serving.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Close releases the Redis client, if any.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

// Get unmarshals the value stored under key into dest. It reports false on a
// miss, an expired entry or a decode error.
func Get(ctx context.Context, key string, dest interface{}) bool {
	hit := get(ctx, key, dest)
	metrics.CacheResult(hit)
	return hit
}

func get(ctx context.Context, key string, dest interface{}) bool {
	var raw []byte
	if RDB != nil {
		val, err := RDB.Get(ctx, key).Bytes()
		if err != nil {
			return false
		}
		raw = val
	} else {
		val, ok := mem.get(key)
		if !ok {
			return false
		}
		raw = val
	}

	return json.Unmarshal(raw, dest) == nil
}

// Set stores value as JSON under key for ttl. A zero ttl means no expiry.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}

	if RDB != nil {
		return RDB.Set(ctx, key, data, ttl).Err()
	}
	mem.set(key, data, ttl)
	return nil
}

// Del removes keys. Missing keys are ignored.
func Del(ctx context.Context, keys ...string) error {
	if RDB != nil {
		return RDB.Del(ctx, keys...).Err()
	}
	for _, k := range keys {
		mem.del(k)
	}
	return nil
}

// Forget is Del for a single key.
func Forget(ctx context.Context, key string) error {
	return Del(ctx, key)
}

// Remember returns the cached value for key, or calls fn, caches its result
// for ttl and decodes it into dest.
func Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, fn func() (interface{}, error)) error {
	if Get(ctx, key, dest) {
		return nil
	}

	v, err := fn()
	if err != nil {
		return err
	}

	if err := Set(ctx, key, v, ttl); err != nil {
		return err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Flush empties the in-process store. It does not touch Redis.
func Flush() {
	mem.flush()
}

// ── in-process fallback ─────────────────────────────────────────────────────

type memEntry struct {
	data    []byte
	expires time.Time
}

type memStore struct {
	mu    sync.Mutex
	items map[string]memEntry
}

var mem = &memStore{items: map[string]memEntry{}}

func (m *memStore) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(m.items, key)
		return nil, false
	}
	return e.data, true
}

func (m *memStore) set(key string, data []byte, ttl time.Duration) {
	e := memEntry{data: data}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
}

func (m *memStore) del(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

func (m *memStore) flush() {
	m.mu.Lock()
	m.items = map[string]memEntry{}
	m.mu.Unlock()
}
