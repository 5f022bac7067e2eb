package uploads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pdfchat/internal/redis"
)

const redisKeyPrefix = "pdfchat:upload:"

// RedisStore keeps uploads as redis strings that expire after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := checkUpload(data, contentType); err != nil {
		return "", err
	}
	id := newID()
	if err := s.client.Set(ctx, redisKey(id), data, s.ttl); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return id, nil
}

// Take uses GETDEL, so the read and the claim are a single redis command.
func (s *RedisStore) Take(ctx context.Context, id string) ([]byte, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	data, err := s.client.GetDel(ctx, redisKey(id))
	if err != nil {
		if errors.Is(err, redis.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("take upload: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	return s.client.Del(ctx, redisKey(id))
}
