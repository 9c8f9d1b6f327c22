package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/events"
)

// ListSessions returns summaries of all live sessions
func (s *DesignService) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]domain.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.Summary())
	}
	return out, nil
}

// PurgeExpired deletes sessions idle longer than the store TTL
func (s *DesignService) PurgeExpired(ctx context.Context) (int, error) {
	n, err := s.repo.PurgeExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	if n > 0 {
		s.publish(ctx, events.SessionsPurged, "", map[string]any{"count": n})
	}
	return int(n), nil
}

// FlushSearchCache clears cached search results
func (s *DesignService) FlushSearchCache(ctx context.Context) (int64, error) {
	if s.searchCache == nil {
		return 0, ErrUnavailable
	}
	n, err := s.searchCache.FlushAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to flush search cache: %w", err)
	}
	log.Info().Int64("keys_deleted", n).Msg("search cache flushed")
	return n, nil
}

// Readiness describes the state of each dependency
type Readiness struct {
	Ready      bool              `json:"ready"`
	Checks     map[string]string `json:"checks"`
	RoomTypes  int               `json:"room_types"`
	Themes     int               `json:"themes"`
	Generation []string          `json:"generation_models,omitempty"`
}

// Ready pings the session store and object storage
func (s *DesignService) Ready(ctx context.Context) Readiness {
	r := Readiness{
		Ready:     true,
		Checks:    map[string]string{},
		RoomTypes: len(s.catalog.RoomTypes()),
		Themes:    len(s.catalog.Themes()),
	}

	check := func(name string, err error) {
		if err != nil {
			r.Ready = false
			r.Checks[name] = err.Error()
			return
		}
		r.Checks[name] = "ok"
	}
	check("session_store", s.repo.Ping(ctx))
	check("storage_"+s.storage.Name(), s.storage.Ping(ctx))

	if lister, ok := s.generator.(interface{ Strategies() []string }); ok {
		r.Generation = lister.Strategies()
	}
	return r
}
