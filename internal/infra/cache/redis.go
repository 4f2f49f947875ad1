package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/snapser-community/snapser-byosnaps/internal/domain/game"
)

const gameKeyPrefix = "byosnap:game:"

type redisGameStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisClient(url string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if poolSize > 0 {
		opt.PoolSize = poolSize
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// NewGameStore stores each user's state as one JSON value that expires after
// ttl; zero keeps it forever.
func NewGameStore(client redis.Cmdable, ttl time.Duration) game.Store {
	return &redisGameStore{client: client, ttl: ttl}
}

func gameKey(userID string) string {
	return gameKeyPrefix + userID
}

func (r *redisGameStore) Get(ctx context.Context, userID string) (*game.State, error) {
	val, err := r.client.Get(ctx, gameKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var state game.State
	if err := json.Unmarshal(val, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	return &state, nil
}

func (r *redisGameStore) Set(ctx context.Context, state *game.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	if err := r.client.Set(ctx, gameKey(state.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set redis key: %w", err)
	}

	return nil
}

func (r *redisGameStore) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, gameKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete redis key: %w", err)
	}
	return nil
}
