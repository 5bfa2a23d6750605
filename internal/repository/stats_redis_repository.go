package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStatsRepository keeps each user's statistics blob under "<prefix>_<userID>".
type RedisStatsRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisStatsRepository constructs the repository.
func NewRedisStatsRepository(client *redis.Client, prefix string) *RedisStatsRepository {
	if prefix == "" {
		prefix = "prepx_analytics"
	}
	return &RedisStatsRepository{client: client, prefix: prefix}
}

func (r *RedisStatsRepository) key(userID string) string {
	return r.prefix + "_" + userID
}

// Get returns the raw blob for userID or ErrStatsNotFound.
func (r *RedisStatsRepository) Get(ctx context.Context, userID string) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("redis get stats %s: %w", userID, err)
	}
	return raw, nil
}

// Put overwrites the blob without expiry.
func (r *RedisStatsRepository) Put(ctx context.Context, userID string, payload []byte) error {
	if err := r.client.Set(ctx, r.key(userID), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set stats %s: %w", userID, err)
	}
	return nil
}

// Delete removes the blob.
func (r *RedisStatsRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete stats %s: %w", userID, err)
	}
	return nil
}
