package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultBackupTTL is how long a backup copy survives in Redis without
// being rewritten.
const DefaultBackupTTL = 24 * time.Hour

// RedisStore is an ephemeral backup. Every write refreshes the key's TTL,
// so backups of an abandoned installation expire on their own.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

// NewRedisClient creates a Redis client with short timeouts; the backup is
// best-effort and must never stall the primary path.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		PoolSize:     2,
	})
}

// NewRedisStore creates a RedisStore. Keys are stored as namespace:key when
// namespace is set. A zero ttl uses DefaultBackupTTL.
func NewRedisStore(client *redis.Client, namespace string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultBackupTTL
	}
	return &RedisStore{client: client, ttl: ttl, namespace: namespace}
}

func (s *RedisStore) key(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("redis key %s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Size sums key and value lengths of every key in the namespace.
func (s *RedisStore) Size(ctx context.Context) (int64, error) {
	var total int64
	iter := s.client.Scan(ctx, 0, s.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		n, err := s.client.StrLen(ctx, k).Result()
		if err != nil {
			return 0, fmt.Errorf("redis strlen %s: %w", k, err)
		}
		total += int64(len(k)) + n
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return total, nil
}
