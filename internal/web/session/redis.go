package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage is a fiber.Storage on a redis server.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage connects lazily to the redis server at addr.
func NewRedisStorage(addr, password string, db int) *RedisStorage {
	return &RedisStorage{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Get implements fiber.Storage.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	return val, err
}

// Set implements fiber.Storage.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	return s.client.Set(context.Background(), key, val, exp).Err()
}

// Delete implements fiber.Storage.
func (s *RedisStorage) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Reset implements fiber.Storage.
func (s *RedisStorage) Reset() error {
	return s.client.FlushDB(context.Background()).Err()
}

// Close implements fiber.Storage.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
