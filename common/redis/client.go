package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/common/config"

	"github.com/go-redis/redis/v8"
)

// Client aliases the go-redis client so callers do not import it directly.
type Client = redis.Client

// Redis backs optional features (page cache, audit stream), so calls fail fast.
const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
)

// NewRedisClient creates a client; it does not dial until first use.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})
}

func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", client.Options().Addr, err)
	}
	return nil
}

// Close closes client if it is non-nil.
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
