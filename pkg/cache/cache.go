package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// defaultOperationTimeout is the timeout for individual Redis operations
	defaultOperationTimeout = 5 * time.Second

	fragmentPrefix = "fragment:"
)

var (
	ErrCacheMiss     = errors.New("key not found")
	ErrCacheDisabled = errors.New("cache disabled")
)

type Cache struct {
	client  *redis.Client
	enabled bool
}

func NewCache(addr string, enable bool) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client:  client,
		enabled: true,
	}, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// operationContext bounds a single Redis call by the request context and the
// default timeout, whichever ends first.
func (c *Cache) operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, defaultOperationTimeout)
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// CacheFragment stores rendered markup as-is under the fragment namespace.
func (c *Cache) CacheFragment(ctx context.Context, key string, markup []byte, ttl time.Duration) error {
	return c.setRaw(ctx, fragmentPrefix+key, markup, ttl)
}

func (c *Cache) GetCachedFragment(ctx context.Context, key string) ([]byte, error) {
	return c.getRaw(ctx, fragmentPrefix+key)
}

// InvalidateFragments drops every fragment whose key starts with prefix,
// except the keys listed in keep.
func (c *Cache) InvalidateFragments(ctx context.Context, prefix string, keep ...string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	kept := make(map[string]struct{}, len(keep))
	for _, key := range keep {
		kept[fragmentPrefix+key] = struct{}{}
	}

	iter := c.client.Scan(ctx, 0, fragmentPrefix+prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if _, ok := kept[key]; ok {
			continue
		}
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) setRaw(ctx context.Context, key string, data []byte, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) getRaw(ctx context.Context, key string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrCacheDisabled
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	} else if err != nil {
		return nil, err
	}
	return val, nil
}
