package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore shares rate-limit windows across replicas. The key
// expiry is set once per window, on the first increment.
type RedisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(url string) (*RedisCounterStore, error) {
	opts, err := redis.ParseURL(url)

	if err != nil {
		return nil, err
	}

	return &RedisCounterStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.Pipeline()

	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

func (s *RedisCounterStore) Close() error {
	return s.client.Close()
}
