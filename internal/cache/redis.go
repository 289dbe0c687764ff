// Package cache keeps computed analytics summaries in Redis so dashboard
// reloads do not recompute them from the full lead snapshot.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"leadtracker/internal/analytics"
)

const (
	summaryKey    = "leadtracker:analytics:summary"
	generationKey = "leadtracker:analytics:generation"
)

type Client struct {
	Redis *redis.Client
	ttl   time.Duration
}

// NewClient connects to redisURL and checks the connection with a ping.
func NewClient(redisURL string, ttl time.Duration) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	return New(client, ttl), nil
}

func New(client *redis.Client, ttl time.Duration) *Client {
	return &Client{Redis: client, ttl: ttl}
}

func (c *Client) Close() error {
	return c.Redis.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Redis.Ping(ctx).Err()
}

// GetSummary reports ok=false on a cache miss.
func (c *Client) GetSummary(ctx context.Context) (analytics.Summary, bool, error) {
	raw, err := c.Redis.Get(ctx, summaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return analytics.Summary{}, false, nil
	}
	if err != nil {
		return analytics.Summary{}, false, fmt.Errorf("failed to get summary: %w", err)
	}

	var s analytics.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		// a payload from an older layout is treated as a miss
		return analytics.Summary{}, false, nil
	}
	return s, true, nil
}

// Generation returns the invalidation counter. Read it before taking the
// snapshot a summary is computed from and pass it to SetSummary.
func (c *Client) Generation(ctx context.Context) (int64, error) {
	gen, err := generation(ctx, c.Redis)
	if err != nil {
		return 0, fmt.Errorf("failed to get summary generation: %w", err)
	}
	return gen, nil
}

// SetSummary stores s unless Invalidate ran since gen was read. A dropped
// write is not an error.
func (c *Client) SetSummary(ctx context.Context, gen int64, s analytics.Summary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	err = c.Redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := generation(ctx, tx)
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, summaryKey, raw, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to set summary: %w", err)
	}
	return nil
}

// Invalidate bumps the generation and drops the stored summary in one
// transaction.
func (c *Client) Invalidate(ctx context.Context) error {
	_, err := c.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, summaryKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate summary: %w", err)
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func generation(ctx context.Context, r getter) (int64, error) {
	gen, err := r.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Noop is used when no Redis URL is configured; every read is a miss.
type Noop struct{}

func (Noop) GetSummary(context.Context) (analytics.Summary, bool, error) {
	return analytics.Summary{}, false, nil
}

func (Noop) Generation(context.Context) (int64, error) { return 0, nil }

func (Noop) SetSummary(context.Context, int64, analytics.Summary) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }

func (Noop) Ping(context.Context) error { return nil }

func (Noop) Close() error { return nil }
