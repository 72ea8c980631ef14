package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAttemptStore counts failed authentication attempts per client with a
// rolling expiry, shared across server instances.
type RedisAttemptStore struct {
	client redis.Cmdable
	prefix string
	window time.Duration
}

func NewRedisAttemptStore(client redis.Cmdable, prefix string, window time.Duration) *RedisAttemptStore {
	if client == nil {
		return nil
	}
	if prefix == "" {
		prefix = DefaultAttemptPrefix
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisAttemptStore{client: client, prefix: prefix, window: window}
}

func (s *RedisAttemptStore) Incr(ctx context.Context, clientID string) (int64, error) {
	if s == nil || clientID == "" {
		return 0, fmt.Errorf("attempt store not configured")
	}
	key := s.prefix + clientID
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// first failure in the window starts the expiry clock
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}
