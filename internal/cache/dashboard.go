package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alloyhq/console/backend-go/internal/analytics"
	"github.com/alloyhq/console/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	dayBookKeyPrefix = "dashboard:daybook"
	summaryKeyPrefix = "dashboard:summary"
	scanBatchSize    = 100
)

// DashboardCache keeps the day-book and monthly summary projections warm.
// Mutations in the pipeline invalidate it; reads fall through on miss.
type DashboardCache interface {
	GetDayBook(ctx context.Context, date string) (*analytics.DayBook, bool, error)
	SetDayBook(ctx context.Context, date string, book *analytics.DayBook) error
	GetSummary(ctx context.Context, month string) (*analytics.DashboardSummary, bool, error)
	SetSummary(ctx context.Context, month string, summary *analytics.DashboardSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetDayBook(ctx context.Context, date string) (*analytics.DayBook, bool, error) {
	var book analytics.DayBook
	found, err := c.get(ctx, dayBookKeyPrefix+":"+date, &book)
	if err != nil || !found {
		return nil, false, err
	}
	return &book, true, nil
}

func (c *redisDashboardCache) SetDayBook(ctx context.Context, date string, book *analytics.DayBook) error {
	return c.set(ctx, dayBookKeyPrefix+":"+date, book)
}

func (c *redisDashboardCache) GetSummary(ctx context.Context, month string) (*analytics.DashboardSummary, bool, error) {
	var summary analytics.DashboardSummary
	found, err := c.get(ctx, summaryKeyPrefix+":"+month, &summary)
	if err != nil || !found {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *redisDashboardCache) SetSummary(ctx context.Context, month string, summary *analytics.DashboardSummary) error {
	return c.set(ctx, summaryKeyPrefix+":"+month, summary)
}

func (c *redisDashboardCache) get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return true, nil
}

func (c *redisDashboardCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	for _, prefix := range []string{dayBookKeyPrefix, summaryKeyPrefix} {
		var cursor uint64
		for {
			keys, nextCursor, err := c.client.Scan(ctx, cursor, prefix+"*", scanBatchSize).Result()
			if err != nil {
				return fmt.Errorf("redis scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := c.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("redis delete failed: %w", err)
				}
			}

			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}
	}

	return nil
}

func (n *noopDashboardCache) GetDayBook(ctx context.Context, date string) (*analytics.DayBook, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetDayBook(ctx context.Context, date string, book *analytics.DayBook) error {
	return nil
}

func (n *noopDashboardCache) GetSummary(ctx context.Context, month string) (*analytics.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetSummary(ctx context.Context, month string, summary *analytics.DashboardSummary) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}
