package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/room-designer/internal/config"
	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/repository/mongo"
)

func TestSessionStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	store, err := mongo.NewSessionStore(ctx, config.MongoConfig{
		URI:        uri,
		Database:   "roomdesigner_test",
		Collection: "sessions_" + uuid.NewString()[:8],
	}, time.Hour)
	require.NoError(t, err)
	defer store.Close(ctx)

	s := domain.NewSession(uuid.NewString(), "https://cdn/room.jpg", time.Now())
	s.RoomType = "Study Room"
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Study Room", got.RoomType)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
