package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Rrens/room-designer/internal/domain"
)

// SessionStore keeps sessions in process memory with idle expiry.
// Sessions are stored as JSON snapshots so callers never share mutable state with the store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	touched  map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates an in-memory session store
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string][]byte),
		touched:  make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock overrides the time source, used by tests
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[id]
	touched := s.touched[id]
	s.mu.RUnlock()

	if !ok || s.expired(touched) {
		return nil, domain.ErrSessionNotFound
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	s.mu.Lock()
	s.sessions[session.ID] = data
	s.touched[session.ID] = s.now()
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok || s.expired(s.touched[id]) {
		delete(s.sessions, id)
		delete(s.touched, id)
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	delete(s.touched, id)
	return nil
}

// List returns live sessions ordered by creation time
func (s *SessionStore) List(ctx context.Context) ([]*domain.Session, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id, touched := range s.touched {
		if !s.expired(touched) {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()

	out := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, session)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for id, touched := range s.touched {
		if s.expired(touched) {
			delete(s.sessions, id)
			delete(s.touched, id)
			purged++
		}
	}
	return purged, nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return nil
}

func (s *SessionStore) expired(touched time.Time) bool {
	return s.ttl > 0 && s.now().Sub(touched) > s.ttl
}
