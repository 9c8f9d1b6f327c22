package search

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/domain"
)

// Cache stores results by query key; Get returns nil on a miss
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.FurnitureItem, error)
	Set(ctx context.Context, key string, items []domain.FurnitureItem) error
}

// CachedSearcher serves repeated queries from a cache.
// Cache failures are logged and never fail the search.
type CachedSearcher struct {
	next  Searcher
	cache Cache
}

// NewCachedSearcher wraps next with cache
func NewCachedSearcher(next Searcher, cache Cache) *CachedSearcher {
	return &CachedSearcher{next: next, cache: cache}
}

func (c *CachedSearcher) Search(ctx context.Context, q Query) ([]domain.FurnitureItem, error) {
	key := q.Key()

	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("search cache read failed")
	}
	if len(cached) > 0 {
		return cached, nil
	}

	items, err := c.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := c.cache.Set(ctx, key, items); err != nil {
			log.Warn().Err(err).Msg("search cache write failed")
		}
	}
	return items, nil
}
