package session

import (
	"errors"
	"net/url"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcachedStorage is a fiber.Storage on a memcached server.
type MemcachedStorage struct {
	client *memcache.Client
}

// NewMemcachedStorage returns a storage on the memcached server.
func NewMemcachedStorage(server string) *MemcachedStorage {
	return &MemcachedStorage{client: memcache.New(server)}
}

// memcached keys can't hold spaces or control characters
func memcachedKey(key string) string {
	return url.QueryEscape(key)
}

// Get implements fiber.Storage.
func (s *MemcachedStorage) Get(key string) ([]byte, error) {
	item, err := s.client.Get(memcachedKey(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return item.Value, nil
}

// Set implements fiber.Storage.
func (s *MemcachedStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	return s.client.Set(&memcache.Item{
		Key:        memcachedKey(key),
		Value:      val,
		Expiration: int32(exp.Seconds()),
	})
}

// Delete implements fiber.Storage.
func (s *MemcachedStorage) Delete(key string) error {
	err := s.client.Delete(memcachedKey(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}

	return err
}

// Reset implements fiber.Storage.
func (s *MemcachedStorage) Reset() error {
	return s.client.DeleteAll()
}

// Close implements fiber.Storage.
func (s *MemcachedStorage) Close() error {
	return s.client.Close()
}
