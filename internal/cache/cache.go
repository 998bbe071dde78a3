package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Client wraps either redis.Client or an in-process go-cache store.
// Redis connectivity errors are swallowed so the cache behaves like a miss.
type Client struct {
	client *redis.Client
	mem    *gocache.Cache
	mu     sync.Mutex
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// NewMemory creates a client backed by an in-process store.
func NewMemory(defaultTTL time.Duration) *Client {
	return &Client{mem: gocache.New(defaultTTL, time.Minute)}
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	if c.mem != nil {
		v, ok := c.mem.Get(key)
		if !ok {
			return nil, nil
		}
		b, _ := v.([]byte)
		return b, nil
	}
	if c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	if c.mem != nil {
		c.mem.Set(key, value, ttl)
		return nil
	}
	if c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		// fail safe: ignore redis errors
		return nil
	}
	return nil
}

// Delete removes keys, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	if c.mem != nil {
		for _, k := range keys {
			c.mem.Delete(k)
		}
		return nil
	}
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return nil
	}
	return nil
}

// Incr increments a counter and returns its new value. The TTL is applied
// when the counter is created, giving a fixed window.
// A zero count is returned when redis is unavailable.
func (c *Client) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if c == nil {
		return 0, nil
	}
	if c.mem != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err := c.mem.Add(key, int64(1), ttl); err == nil {
			return 1, nil
		}
		n, err := c.mem.IncrementInt64(key, 1)
		if err != nil {
			return 0, nil
		}
		return n, nil
	}
	if c.client == nil {
		return 0, nil
	}

	// SET NX EX creates the counter with its expiry; INCR keeps the TTL.
	var incr *redis.IntCmd
	if _, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, ttl)
		incr = pipe.Incr(ctx, key)
		return nil
	}); err != nil {
		return 0, nil
	}
	return incr.Val(), nil
}

// Count returns the current value of a counter created by Incr.
func (c *Client) Count(ctx context.Context, key string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	if c.mem != nil {
		v, ok := c.mem.Get(key)
		if !ok {
			return 0, nil
		}
		n, _ := v.(int64)
		return n, nil
	}
	if c.client == nil {
		return 0, nil
	}
	n, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Ping reports whether the backing store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the redis connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
