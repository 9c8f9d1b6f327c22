package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Rrens/room-designer/internal/domain"
)

const lockPrefix = "lock:session:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Locker is a per-session lock shared by every replica using the same Redis.
type Locker struct {
	client    *Client
	lease     time.Duration
	retryWait time.Duration
}

// NewLocker creates a Redis lock whose lease bounds how long a crashed holder can block a session
func NewLocker(client *Client, lease time.Duration) *Locker {
	return &Locker{client: client, lease: lease, retryWait: 25 * time.Millisecond}
}

// Lock retries SET NX until it succeeds or ctx is done
func (l *Locker) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := lockPrefix + sessionID
	token := uuid.NewString()

	for {
		ok, err := l.client.rdb.SetNX(ctx, key, token, l.lease).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("failed to acquire session lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, domain.ErrLockTimeout
		case <-time.After(l.retryWait):
		}
	}

	return func() {
		// Release with a fresh context so a cancelled request still frees the lock.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		releaseScript.Run(ctx, l.client.rdb, []string{key}, token)
	}, nil
}
