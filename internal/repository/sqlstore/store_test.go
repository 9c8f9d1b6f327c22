package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/repository/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, ttl time.Duration) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "sessions.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteSessionStore(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t, time.Hour)

	s := domain.NewSession("s-1", "https://cdn/room.jpg", time.Now())
	s.RoomType = "Bedroom Furniture"
	require.NoError(t, store.Save(ctx, s))

	s.Theme = "TIMELESS LUXURY"
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Bedroom Furniture", got.RoomType)
	assert.Equal(t, "TIMELESS LUXURY", got.Theme)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.Delete(ctx, "s-1"))
	_, err = store.Get(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "s-1"), domain.ErrSessionNotFound)
}

func TestSQLiteSessionStorePurge(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t, 50*time.Millisecond)

	require.NoError(t, store.Save(ctx, domain.NewSession("s-1", "u", time.Now())))
	time.Sleep(120 * time.Millisecond)

	_, err := store.Get(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
