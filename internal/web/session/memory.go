package session

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryStorage is an in process fiber.Storage, sessions are lost on restart.
type MemoryStorage struct {
	cache *cache.Cache
}

// NewMemoryStorage returns an empty in process storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{cache: cache.New(cache.NoExpiration, memoryCleanupInterval)}
}

// Get implements fiber.Storage.
func (s *MemoryStorage) Get(key string) ([]byte, error) {
	x, found := s.cache.Get(key)
	if !found {
		return nil, nil
	}

	val, _ := x.([]byte)

	return val, nil
}

// Set implements fiber.Storage.
func (s *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	if exp <= 0 {
		exp = cache.NoExpiration
	}

	s.cache.Set(key, append([]byte(nil), val...), exp)

	return nil
}

// Delete implements fiber.Storage.
func (s *MemoryStorage) Delete(key string) error {
	s.cache.Delete(key)
	return nil
}

// Reset implements fiber.Storage.
func (s *MemoryStorage) Reset() error {
	s.cache.Flush()
	return nil
}

// Close implements fiber.Storage.
func (s *MemoryStorage) Close() error {
	return nil
}
