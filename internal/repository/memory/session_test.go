package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore(time.Hour)

	s := domain.NewSession("abc", "https://cdn/room.jpg", time.Now())
	s.RoomType = "Kitchen"
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", got.RoomType)

	got.Theme = "BOHO ECLECTIC"
	again, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, again.Theme, "store must not share state with callers")

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "abc"), domain.ErrSessionNotFound)
}

func TestSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := memory.NewSessionStore(time.Hour).WithClock(func() time.Time { return now })

	require.NoError(t, store.Save(ctx, domain.NewSession("old", "u", now)))
	now = now.Add(30 * time.Minute)
	require.NoError(t, store.Save(ctx, domain.NewSession("new", "u", now)))

	now = now.Add(45 * time.Minute)
	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].ID)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestKeyedLockerSerializes(t *testing.T) {
	locker := memory.NewKeyedLocker()
	ctx := context.Background()

	var mu sync.Mutex
	inside := 0
	maxInside := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "s1")
			require.NoError(t, err)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
}

func TestKeyedLockerTimeout(t *testing.T) {
	locker := memory.NewKeyedLocker()

	unlock, err := locker.Lock(context.Background(), "s1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrLockTimeout)

	other, err := locker.Lock(context.Background(), "s2")
	require.NoError(t, err)
	other()

	unlock()
	unlock()

	again, err := locker.Lock(context.Background(), "s1")
	require.NoError(t, err)
	again()
}
