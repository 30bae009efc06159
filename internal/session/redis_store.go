package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "catalog:session:"

// RedisStore keeps session records in Redis with a TTL matching their expiry.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context, r Record) error {
	if r.ID == "" || r.UserID == "" {
		return errors.New("session: missing id or user_id")
	}

	ttl := r.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session: expires_at must be in the future")
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}
	return s.client.Set(ctx, s.key(r.ID), data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: get: %w", err)
	}

	var r Record
	if err := json.Unmarshal(val, &r); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &r, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}
