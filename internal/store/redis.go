package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comunifi/droprelay/pkg/relay"
	"github.com/redis/go-redis/v9"
)

// RedisStore shares room state between server processes. Expiry is left to
// redis: every access pushes the key's deadline back by ttl.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisClient connects to the redis instance described by url
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rdb, nil
}

func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Create(ctx context.Context, key string, value []byte) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, s.key(key), value, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", key, err)
	}

	return ok, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	var cmd *redis.StringCmd
	if s.ttl > 0 {
		cmd = s.rdb.GetEx(ctx, s.key(key), s.ttl)
	} else {
		cmd = s.rdb.Get(ctx, s.key(key))
	}

	b, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, relay.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return b, nil
}

func (s *RedisStore) Replace(ctx context.Context, key string, value []byte) (bool, error) {
	ok, err := s.rdb.SetXX(ctx, s.key(key), value, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to replace %s: %w", key, err)
	}

	return ok, nil
}

func (s *RedisStore) Close() error {
	return nil
}
