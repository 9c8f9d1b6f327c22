package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Rrens/room-designer/internal/catalog"
	"github.com/Rrens/room-designer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDefault(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func TestDefaultCatalog(t *testing.T) {
	c := mustDefault(t)

	rooms := c.RoomTypes()
	require.Len(t, rooms, 9)
	assert.Equal(t, "Living Room Furniture", rooms[0])
	assert.Equal(t, "Guest Bedroom", rooms[8])

	assert.Len(t, c.Themes(), 5)
	theme, ok := c.Theme("minimal scandinavian")
	require.True(t, ok)
	assert.Equal(t, "MINIMAL SCANDINAVIAN", theme.Name)
	assert.Len(t, theme.Websites, 9)
}

func TestLookup(t *testing.T) {
	c := mustDefault(t)

	dims, err := c.Lookup("Living Room Furniture", "Sofa", "3-Seater Sofa")
	require.NoError(t, err)
	assert.Equal(t, domain.FurnitureDimensions{Width: 84, Depth: 36, Height: 34}, dims)

	_, err = c.Lookup("Living Room Furniture", "Sofa", "Chaise")
	assert.True(t, errors.Is(err, catalog.ErrNotFound))

	_, err = c.Lookup("Garage", "Sofa", "3-Seater Sofa")
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestFootprint(t *testing.T) {
	c := mustDefault(t)

	fp, err := c.Footprint("Living Room Furniture", "Sofa", "3-Seater Sofa")
	require.NoError(t, err)
	assert.Equal(t, 21.0, fp.AreaSqft)

	_, err = c.Footprint("Bedroom Furniture", "Sofa", "3-Seater Sofa")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestResolve(t *testing.T) {
	c := mustDefault(t)

	tests := []struct {
		name     string
		room     string
		category string
		subtype  string
		source   catalog.Source
		want     domain.FurnitureDimensions
	}{
		{"exact", "Bedroom Furniture", "Bed", "King Bed", catalog.SourceExact, domain.FurnitureDimensions{Width: 76, Depth: 80, Height: 25}},
		{"first subtype", "Bedroom Furniture", "Bed", "", catalog.SourceCategoryDefault, domain.FurnitureDimensions{Width: 60, Depth: 80, Height: 25}},
		{"unknown subtype", "Bedroom Furniture", "Bed", "Water Bed", catalog.SourceCategoryDefault, domain.FurnitureDimensions{Width: 60, Depth: 80, Height: 25}},
		{"table exact", "Kitchen", "Dresser", "", catalog.SourceGenericFallback, domain.FurnitureDimensions{Width: 60, Depth: 20, Height: 34}},
		{"table partial", "Kitchen", "Outdoor Chair", "", catalog.SourceGenericFallback, domain.FurnitureDimensions{Width: 24, Depth: 24, Height: 36}},
		{"generic", "Garage", "Workbench", "", catalog.SourceGenericFallback, domain.FurnitureDimensions{Width: 48, Depth: 24, Height: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Resolve(tt.room, tt.category, tt.subtype)
			assert.Equal(t, tt.source, res.Source)
			assert.Equal(t, tt.want, res.Dimensions)
		})
	}
}

func TestClearances(t *testing.T) {
	c := mustDefault(t)

	assert.Equal(t, 8.0, c.Clearances("Living Room Furniture")["tv_viewing_distance"])
	assert.Equal(t, map[string]float64{"walkway": 3.0, "general_clearance": 2.0}, c.Clearances("Guest Bedroom"))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := []byte(`
rooms:
  - name: Tiny Room
    categories:
      - name: Stool
        subtypes:
          - {name: Step Stool, width: 12, depth: 12, height: 18}
themes:
  - name: Plain
    style: plain
    websites: [https://example.com/]
generic_dimensions: {width: 10, depth: 10, height: 10}
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tiny Room"}, c.RoomTypes())

	_, ok := c.Theme("PLAIN")
	assert.True(t, ok)

	fp, err := c.Footprint("Tiny Room", "Stool", "Step Stool")
	require.NoError(t, err)
	assert.Equal(t, 1.0, fp.AreaSqft)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := catalog.Parse([]byte("rooms: []"))
	assert.Error(t, err)

	_, err = catalog.Parse([]byte(`
rooms:
  - name: Bad
    categories:
      - name: X
        subtypes:
          - {name: Y, width: -1, depth: 1, height: 1}
`))
	assert.Error(t, err)
}
