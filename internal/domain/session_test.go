package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Rrens/room-designer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFootprint(t *testing.T) {
	fp := domain.NewFootprint("Sofa", "3-Seater Sofa", domain.FurnitureDimensions{Width: 84, Depth: 36, Height: 34})
	assert.Equal(t, 21.0, fp.AreaSqft)
	assert.Equal(t, "Sofa", fp.Category)
	assert.Equal(t, "3-Seater Sofa", fp.Subtype)
}

func TestNewRoomSpec(t *testing.T) {
	t.Run("computes derived fields", func(t *testing.T) {
		room, err := domain.NewRoomSpec(15, 12, 9)
		require.NoError(t, err)
		assert.Equal(t, 180.0, room.FloorAreaSqft)
		assert.Equal(t, 1620.0, room.VolumeCuft)
	})

	tests := []struct {
		name                  string
		length, width, height float64
		field                 string
	}{
		{"zero length", 0, 10, 8, "length"},
		{"negative width", 10, -1, 8, "width"},
		{"height too large", 10, 10, 1000.5, "height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewRoomSpec(tt.length, tt.width, tt.height)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("upper bound is inclusive", func(t *testing.T) {
		_, err := domain.NewRoomSpec(1000, 1000, 1000)
		assert.NoError(t, err)
	})
}

func TestRoomSpecSetDimensionsRecomputes(t *testing.T) {
	room, err := domain.NewRoomSpec(10, 10, 8)
	require.NoError(t, err)

	require.NoError(t, room.SetDimensions(20, 10, 8))
	assert.Equal(t, 200.0, room.FloorAreaSqft)
	assert.Equal(t, 1600.0, room.VolumeCuft)

	assert.Error(t, room.SetDimensions(-1, 10, 8))
	assert.Equal(t, 200.0, room.FloorAreaSqft)
}

func TestSessionFurnitureTotals(t *testing.T) {
	s := domain.NewSession("s1", "https://cdn/x.jpg", time.Now())
	sofa := domain.NewFootprint("Sofa", "3-Seater Sofa", domain.FurnitureDimensions{Width: 84, Depth: 36})
	table := domain.NewFootprint("Coffee Table", "Round", domain.FurnitureDimensions{Width: 35, Depth: 35})

	s.AddFurniture(sofa)
	before := s.TotalFootprintSqft

	s.AddFurniture(table)
	assert.InDelta(t, domain.SumArea(s.Furniture), s.TotalFootprintSqft, 1e-9)

	removed, err := s.RemoveFurniture(1)
	require.NoError(t, err)
	assert.Equal(t, "Round", removed.Subtype)
	assert.Equal(t, before, s.TotalFootprintSqft)

	_, err = s.RemoveFurniture(5)
	assert.Error(t, err)

	_, err = s.RemoveFurniture(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.TotalFootprintSqft)
	assert.Empty(t, s.Furniture)
}

func TestSessionRemoveKeepsOrder(t *testing.T) {
	s := domain.NewSession("s1", "u", time.Now())
	for _, name := range []string{"a", "b", "c"} {
		s.AddFurniture(domain.NewFootprint("Chair", name, domain.FurnitureDimensions{Width: 24, Depth: 24}))
	}

	_, err := s.RemoveFurniture(1)
	require.NoError(t, err)
	require.Len(t, s.Furniture, 2)
	assert.Equal(t, "a", s.Furniture[0].Subtype)
	assert.Equal(t, "c", s.Furniture[1].Subtype)
	assert.Equal(t, 8.0, s.TotalFootprintSqft)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := domain.NewSession("s1", "u", now.Add(-2*time.Hour))

	assert.True(t, s.Expired(now, time.Hour))
	assert.False(t, s.Expired(now, 3*time.Hour))
	assert.False(t, s.Expired(now, 0))
}

func TestFurnitureCategoriesUnique(t *testing.T) {
	s := domain.NewSession("s1", "u", time.Now())
	s.AddFurniture(
		domain.NewFootprint("Sofa", "a", domain.FurnitureDimensions{}),
		domain.NewFootprint("Chair", "b", domain.FurnitureDimensions{}),
		domain.NewFootprint("Sofa", "c", domain.FurnitureDimensions{}),
	)
	assert.Equal(t, []string{"Sofa", "Chair"}, s.FurnitureCategories())
}

func TestNewPriceRange(t *testing.T) {
	pr, err := domain.NewPriceRange(0, 500)
	require.NoError(t, err)
	assert.True(t, pr.Contains(0))
	assert.True(t, pr.Contains(500))
	assert.False(t, pr.Contains(500.01))

	_, err = domain.NewPriceRange(-1, 10)
	assert.Error(t, err)
	_, err = domain.NewPriceRange(100, 100)
	assert.Error(t, err)
}
