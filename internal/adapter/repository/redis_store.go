package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mock-interview/internal/domain"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mock-interview:session:"

// RedisStore keeps each session as one JSON value. Keys never expire.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (r *RedisStore) Create(ctx context.Context, s *domain.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, redisKey(s.ID), b, 0).Err(); err != nil {
		return fmt.Errorf("redis: set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	b, err := r.rdb.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("redis: decode session: %w", err)
	}
	return &s, nil
}

// Update rewrites the whole value with SET XX so a key deleted between the
// read and the write is reported as not found instead of recreated.
func (r *RedisStore) Update(ctx context.Context, id string, patch domain.SessionPatch) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Apply(patch)

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ok, err := r.rdb.SetXX(ctx, redisKey(id), b, 0).Result()
	if err != nil {
		return fmt.Errorf("redis: update session: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
