// Package cache fronts hot read paths with a short-TTL redis cache. The file
// store stays authoritative: every cached entry is an expendable copy, and an
// unreachable redis degrades to always-miss rather than failing requests.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is consulted before the store on listing reads and invalidated on
// every mutation. Implementations fail safe: backend errors never surface, a
// broken backend behaves as a permanent miss.
type Cache interface {
	Get(ctx context.Context, key string) []byte
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Client implements Cache over redis. A nil *Client is valid and never
// touches the network, which is how redis-less deployments run.
type Client struct {
	client *redis.Client
}

// New creates a redis-backed cache client.
func New(addr, password string, db int) *Client {
	return &Client{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Get returns the cached value, or nil on miss or backend failure.
func (c *Client) Get(ctx context.Context, key string) []byte {
	if c == nil || c.client == nil {
		return nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and connectivity errors alike read as a miss
		return nil
	}
	return res
}

// Set stores value with a TTL, ignoring backend failures.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, key, value, ttl)
}

// Delete removes a key, ignoring backend failures.
func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key)
}
