package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ephemeral is a small expiring key/value used for blacklisted tokens and
// pending item removals.
type Ephemeral interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	// Take reads and deletes the key in one step, so at most one caller gets it.
	Take(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, key string) error
}

// NewEphemeral returns a Redis backed store, or an in-process one when the
// client is nil (development mode).
func NewEphemeral(client *redis.Client) Ephemeral {
	if client == nil {
		return NewMemoryEphemeral()
	}
	return &RedisEphemeral{client: client}
}

type RedisEphemeral struct {
	client *redis.Client
}

func (r *RedisEphemeral) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisEphemeral) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisEphemeral) Take(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis getdel %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisEphemeral) Del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

type memoryEntry struct {
	value   string
	expires time.Time
}

type MemoryEphemeral struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryEphemeral() *MemoryEphemeral {
	return &MemoryEphemeral{items: map[string]memoryEntry{}, now: time.Now}
}

// WithClock replaces the time source; tests use it to expire entries.
func (m *MemoryEphemeral) WithClock(now func() time.Time) *MemoryEphemeral {
	m.now = now
	return m
}

// Set also drops every expired entry, so keys that are never read again
// do not pile up.
func (m *MemoryEphemeral) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, e := range m.items {
		if !now.Before(e.expires) {
			delete(m.items, k)
		}
	}
	m.items[key] = memoryEntry{value: value, expires: now.Add(ttl)}
	return nil
}

func (m *MemoryEphemeral) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(key)
}

func (m *MemoryEphemeral) Take(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok, err := m.lookup(key)
	delete(m.items, key)
	return v, ok, err
}

func (m *MemoryEphemeral) lookup(key string) (string, bool, error) {
	e, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.items, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryEphemeral) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// BlacklistToken keeps a logged-out token rejected until it would have expired anyway.
func BlacklistToken(ctx context.Context, e Ephemeral, token string, expiresIn time.Duration) error {
	if expiresIn <= 0 {
		return nil
	}
	return e.Set(ctx, fmt.Sprintf("blacklist:%s", token), "1", expiresIn)
}

func IsTokenBlacklisted(ctx context.Context, e Ephemeral, token string) (bool, error) {
	_, ok, err := e.Get(ctx, fmt.Sprintf("blacklist:%s", token))
	return ok, err
}
