package storage

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableRedis(t *testing.T) *RedisStore {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "taskflow-test", time.Minute)
}

func TestRedisStore_UnreachableIsNotNotFound(t *testing.T) {
	s := unreachableRedis(t)

	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_UnreachableBackupDoesNotFailPrimaryWrites(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore(0)
	s := NewMirroredStore(primary, unreachableRedis(t), nil)

	require.NoError(t, s.Set(ctx, "k", "v"))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	u, err := s.Usage(ctx)
	require.NoError(t, err)
	assert.Zero(t, u.Backup)
}

func TestRedisStore_Namespacing(t *testing.T) {
	s := NewRedisStore(nil, "ns", 0)
	assert.Equal(t, "ns:k", s.key("k"))
	assert.Equal(t, DefaultBackupTTL, s.ttl)

	s = NewRedisStore(nil, "", time.Second)
	assert.Equal(t, "k", s.key("k"))
}
