package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(sid string) string { return "session:" + sid }

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, sid, key string, dst any) (bool, error) {
	data, err := s.client.HGet(ctx, redisKey(sid), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set writes the field and slides the session expiry.
func (s *RedisStore) Set(ctx context.Context, sid, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	k := redisKey(sid)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, key, data)
		pipe.Expire(ctx, k, s.ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context, sid, key string) error {
	return s.client.HDel(ctx, redisKey(sid), key).Err()
}

func (s *RedisStore) Destroy(ctx context.Context, sid string) error {
	return s.client.Del(ctx, redisKey(sid)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
