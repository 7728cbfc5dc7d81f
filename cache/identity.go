// Package cache keeps resolved bearer tokens in Redis so the auth gate does
// not hit the users table on every request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"stock-marketplace/models"
)

const keyPrefix = "auth:identity:"

// IdentityCache maps bearer tokens to the identity that owns them.
type IdentityCache interface {
	Get(ctx context.Context, token string) (models.Identity, bool, error)
	Set(ctx context.Context, token string, ident models.Identity) error
}

type RedisIdentityCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisIdentityCache(rdb redis.Cmdable, ttl time.Duration) *RedisIdentityCache {
	return &RedisIdentityCache{rdb: rdb, ttl: ttl}
}

// Key is derived from a hash so raw tokens never reach Redis.
func Key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (c *RedisIdentityCache) Get(ctx context.Context, token string) (models.Identity, bool, error) {
	data, err := c.rdb.Get(ctx, Key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Identity{}, false, nil
	}
	if err != nil {
		return models.Identity{}, false, fmt.Errorf("read cached identity: %w", err)
	}

	var ident models.Identity
	if err := json.Unmarshal(data, &ident); err != nil {
		return models.Identity{}, false, fmt.Errorf("decode cached identity: %w", err)
	}
	return ident, true, nil
}

func (c *RedisIdentityCache) Set(ctx context.Context, token string, ident models.Identity) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(token), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache identity: %w", err)
	}
	return nil
}
