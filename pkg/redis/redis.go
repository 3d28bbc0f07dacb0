// Package redis builds the optional Redis client backing the rate limiter.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pulseai/pulsedesk/config"
)

// ErrDisabled is returned when no address is configured.
var ErrDisabled = errors.New("redis: not configured")

const (
	defaultPoolSize     = 10
	defaultMinIdleConns = 2
	defaultDialTimeout  = 5 * time.Second
	defaultIOTimeout    = 3 * time.Second
)

// Options maps the central config onto client options, filling unset
// values with defaults.
func Options(c config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     orDefault(c.PoolSize, defaultPoolSize),
		MinIdleConns: orDefault(c.MinIdleConns, defaultMinIdleConns),
		DialTimeout:  seconds(c.DialTimeoutSeconds, defaultDialTimeout),
		ReadTimeout:  seconds(c.ReadTimeoutSeconds, defaultIOTimeout),
		WriteTimeout: seconds(c.WriteTimeoutSeconds, defaultIOTimeout),
	}
}

// New connects and pings. An empty address yields ErrDisabled.
func New(ctx context.Context, c config.RedisConfig) (*goredis.Client, error) {
	if c.Addr == "" {
		return nil, ErrDisabled
	}

	rdb := goredis.NewClient(Options(c))
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func seconds(v int, def time.Duration) time.Duration {
	if v > 0 {
		return time.Duration(v) * time.Second
	}
	return def
}
