package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const consumedKeyPrefix = "auth:consumed:v1:"

// TokenRegistry remembers consumed token ids so single-use tokens (reset
// tokens, rotated-out refresh tokens) cannot be replayed. Entries only need
// to outlive the token itself, so they carry the token's remaining TTL.
type TokenRegistry interface {
	// Consume marks the jti as used for the given duration. It returns
	// false when the jti was already consumed.
	Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}

// RedisTokenRegistry implements TokenRegistry on Redis, shared across
// service instances.
type RedisTokenRegistry struct {
	cache *redis.Client
}

// NewRedisTokenRegistry builds a Redis-backed registry.
func NewRedisTokenRegistry(cache *redis.Client) *RedisTokenRegistry {
	return &RedisTokenRegistry{cache: cache}
}

// Consume reserves the jti with SETNX; the first caller wins.
func (r *RedisTokenRegistry) Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	ok, err := r.cache.SetNX(ctx, consumedKeyPrefix+jti, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("consume token id: %w", err)
	}
	return ok, nil
}

type memoryTokenRegistry struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewMemoryTokenRegistry builds an in-process registry for tests and local
// development. It does not share state across instances.
func NewMemoryTokenRegistry() TokenRegistry {
	return &memoryTokenRegistry{entries: make(map[string]time.Time)}
}

func (r *memoryTokenRegistry) Consume(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, expires := range r.entries {
		if expires.Before(now) {
			delete(r.entries, id)
		}
	}
	if _, used := r.entries[jti]; used {
		return false, nil
	}
	r.entries[jti] = now.Add(ttl)
	return true, nil
}
