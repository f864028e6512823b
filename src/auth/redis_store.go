package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedKeyPrefix = "revoked:"

// RedisRevocationStore backs the logout blacklist with Redis so revocations
// are shared across server instances. Entries carry a TTL matching the
// token's remaining lifetime; Redis garbage-collects them after that.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore connects using a redis:// URL and verifies the
// connection before returning.
func NewRedisRevocationStore(ctx context.Context, url string) (*RedisRevocationStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisRevocationStore{client: client}, nil
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	// SET is idempotent; revoking twice just refreshes the entry.
	return s.client.Set(ctx, revokedKeyPrefix+token, "1", ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, err := s.client.Get(ctx, revokedKeyPrefix+token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}
