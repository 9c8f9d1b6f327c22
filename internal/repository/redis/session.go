package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rrens/room-designer/internal/domain"
)

const sessionPrefix = "session:"

// SessionStore persists sessions as JSON values whose TTL is refreshed on every save.
type SessionStore struct {
	client *Client
	ttl    time.Duration
}

// NewSessionStore creates a Redis-backed session store
func NewSessionStore(client *Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionPrefix + id
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.rdb.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.rdb.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// List scans all session keys
func (s *SessionStore) List(ctx context.Context) ([]*domain.Session, error) {
	var (
		cursor uint64
		out    []*domain.Session
	)

	for {
		keys, next, err := s.client.rdb.Scan(ctx, cursor, sessionPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan sessions: %w", err)
		}

		if len(keys) > 0 {
			values, err := s.client.rdb.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, fmt.Errorf("failed to load sessions: %w", err)
			}
			for _, v := range values {
				raw, ok := v.(string)
				if !ok {
					continue
				}
				var session domain.Session
				if err := json.Unmarshal([]byte(raw), &session); err != nil {
					continue
				}
				out = append(out, &session)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// PurgeExpired is a no-op because Redis expires keys itself
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.rdb.Ping(ctx).Err()
}
