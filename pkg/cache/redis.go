package cache

import (
	"context"
	"time"

	"service-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the key does not exist
var ErrCacheMiss = redis.Nil

// Cache is a thin byte-oriented wrapper around a redis client. Values are
// stored as serialized JSON; callers own the encoding.
type Cache struct {
	client *redis.Client
}

func NewCache(cfg utils.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{client: client}, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, key).Bytes()
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
