package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/release_lock.lua
var releaseLockScript string

type Client struct {
	rdb           *redis.Client
	releaseScript *redis.Script
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:           rdb,
		releaseScript: redis.NewScript(releaseLockScript),
	}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// AcquireTransitionLock takes the per-order lock guarding a status
// transition. Returns false when another request on the same order is
// already in flight.
func (c *Client) AcquireTransitionLock(ctx context.Context, orderID int64, token string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, transitionLockKey(orderID), token, ttl).Result()
}

// ReleaseTransitionLock releases the per-order lock. The Lua script only
// deletes the key when the token matches, so an expired lock re-acquired
// by another request is left alone.
func (c *Client) ReleaseTransitionLock(ctx context.Context, orderID int64, token string) error {
	_, err := c.releaseScript.Run(ctx, c.rdb, []string{transitionLockKey(orderID)}, token).Result()
	if err != nil {
		return fmt.Errorf("release lock script failed: %w", err)
	}
	return nil
}

// ClaimIdempotencyKey stores a booking idempotency key mapped to the order
// it produced. Returns false when the key was already claimed.
func (c *Client) ClaimIdempotencyKey(ctx context.Context, key string, orderID int64, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, idempotencyKey(key), orderID, ttl).Result()
}

// LookupIdempotencyKey returns the order id a key was claimed for, or 0
// when unknown
func (c *Client) LookupIdempotencyKey(ctx context.Context, key string) (int64, error) {
	id, err := c.rdb.Get(ctx, idempotencyKey(key)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return id, err
}

func transitionLockKey(orderID int64) string {
	return fmt.Sprintf("order:transition:%d", orderID)
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("booking:idem:%s", key)
}
