package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodcircles/storefront/internal/core/domain"
)

const (
	sessionKeyPrefix    = "session:"
	submissionKeyPrefix = "submission:"

	sessionTTL = 24 * time.Hour

	// submissionTTL bounds how long a crashed request can hold the guard.
	submissionTTL = 30 * time.Second
)

// RedisAdapter backs the cart snapshot storage, the session store and the
// at-most-one-in-flight submission guard.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// Get returns the value stored under key, nil when the key is absent.
func (r *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (r *RedisAdapter) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisAdapter) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisAdapter) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (r *RedisAdapter) PutSession(ctx context.Context, session domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.client.Set(ctx, sessionKeyPrefix+session.Token, raw, sessionTTL).Err()
}

// Acquire takes the per-user submission lock, returning false when a
// submission is already in flight.
func (r *RedisAdapter) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, submissionKeyPrefix+key, 1, submissionTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RedisAdapter) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, submissionKeyPrefix+key).Err()
}
