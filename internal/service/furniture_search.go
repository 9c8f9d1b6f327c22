package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/events"
	"github.com/Rrens/room-designer/internal/search"
)

// SetPriceRange sets the budget band for furniture search
func (s *DesignService) SetPriceRange(ctx context.Context, id string, min, max float64) (*domain.PriceRange, error) {
	band, err := domain.NewPriceRange(min, max)
	if err != nil {
		return nil, err
	}

	if _, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		if err := sess.Require(domain.StepFurniture); err != nil {
			return err
		}
		sess.PriceRange = band
		return nil
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, events.PriceRangeSet, id, map[string]any{"min": band.Min, "max": band.Max})
	return band, nil
}

type SearchResult struct {
	Results          []domain.FurnitureItem `json:"results"`
	Count            int                    `json:"count"`
	SearchedWebsites int                    `json:"searched_websites"`
	Categories       []string               `json:"categories"`
	DurationSeconds  float64                `json:"duration_seconds"`
}

// Search queries the theme's vendor websites for the selected furniture.
// The session lock is not held while scraping; results are written back
// once the search returns.
func (s *DesignService) Search(ctx context.Context, id string) (*SearchResult, error) {
	steps := []domain.Step{domain.StepRoomType, domain.StepTheme, domain.StepFurniture, domain.StepPriceRange}

	snap, err := s.snapshot(ctx, id, steps...)
	if err != nil {
		return nil, err
	}

	q := search.Query{
		Theme:      snap.Theme,
		RoomType:   snap.RoomType,
		Categories: snap.FurnitureCategories(),
		PriceMin:   snap.PriceRange.Min,
		PriceMax:   snap.PriceRange.Max,
	}

	start := time.Now()
	items, err := s.searcher.Search(ctx, q)
	if err != nil {
		return nil, domain.External("furniture search", err)
	}
	elapsed := time.Since(start)

	if _, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		if err := sess.Require(steps...); err != nil {
			return err
		}
		sess.SearchResults = items
		return nil
	}); err != nil {
		return nil, err
	}

	websites := 0
	if t, ok := s.catalog.Theme(snap.Theme); ok {
		websites = len(t.Websites)
	}

	log.Info().
		Str("session_id", id).
		Int("results", len(items)).
		Dur("duration", elapsed).
		Msg("furniture search completed")
	s.publish(ctx, events.SearchCompleted, id, map[string]any{"count": len(items), "categories": q.Categories})

	return &SearchResult{
		Results:          items,
		Count:            len(items),
		SearchedWebsites: websites,
		Categories:       q.Categories,
		DurationSeconds:  domain.Round2(elapsed.Seconds()),
	}, nil
}

// ClearSearch drops the stored search results so a new search can run
func (s *DesignService) ClearSearch(ctx context.Context, id string) error {
	if _, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		sess.SearchResults = []domain.FurnitureItem{}
		return nil
	}); err != nil {
		return err
	}

	s.publish(ctx, events.SearchCleared, id, nil)
	return nil
}
