package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rrens/room-designer/internal/domain"
)

const searchCachePrefix = "search:"

// SearchCache stores furniture search results by query key
type SearchCache struct {
	client *Client
	ttl    time.Duration
}

// NewSearchCache creates a new search cache
func NewSearchCache(client *Client, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: ttl}
}

// Get returns cached results, or nil on a miss
func (c *SearchCache) Get(ctx context.Context, key string) ([]domain.FurnitureItem, error) {
	data, err := c.client.rdb.Get(ctx, searchCachePrefix+key).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var items []domain.FurnitureItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search results: %w", err)
	}
	return items, nil
}

// Set caches results for a query key
func (c *SearchCache) Set(ctx context.Context, key string, items []domain.FurnitureItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal search results: %w", err)
	}
	return c.client.rdb.Set(ctx, searchCachePrefix+key, data, c.ttl).Err()
}

// FlushAll removes all cached search results
func (c *SearchCache) FlushAll(ctx context.Context) (int64, error) {
	pattern := searchCachePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
