package search_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/room-designer/internal/catalog"
	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/search"
)

const productPage = `<html><body><section>
<div class="product-card">
  <a href="/p/oak-sofa"><img src="/img/oak.jpg"></a>
  <h3 class="product-title">Oak Frame Sofa</h3>
  <span class="price">$1,299.00</span>
</div>
<div class="product-card">
  <a href="/p/linen-sofa"><img data-src="/img/linen.jpg"></a>
  <h3 class="product-title">Linen Sofa</h3>
  <span class="price">$899</span>
</div>
<div class="product-card">
  <a href="/p/velvet-sofa"></a>
  <h3 class="product-title">Velvet Sofa</h3>
  <span class="price">$4,500</span>
</div>
<div class="product-card">
  <h3 class="product-title">No Price Sofa</h3>
</div>
</section></body></html>`

func testCatalog(t *testing.T, website string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(fmt.Sprintf(`
rooms:
  - name: Living Room Furniture
    categories:
      - name: Sofa
        subtypes:
          - {name: 3-Seater Sofa, width: 84, depth: 36, height: 34}
themes:
  - name: MODERN LIVING
    style: modern
    websites: [%q]
generic_dimensions: {width: 48, depth: 24, height: 30}
`, website)))
	require.NoError(t, err)
	return c
}

func TestScraperGenericSite(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/search" && r.URL.Query().Get("q") == "sofa" {
			fmt.Fprint(w, productPage)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := search.NewScraper(testCatalog(t, srv.URL+"/"), search.Options{UserAgent: "test"})
	items, err := s.Search(context.Background(), search.Query{
		Theme:      "modern living",
		RoomType:   "Living Room Furniture",
		Categories: []string{"Sofa"},
		PriceMin:   500,
		PriceMax:   2000,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Linen Sofa", items[0].Name)
	assert.Equal(t, 899.0, items[0].Price)
	assert.Equal(t, srv.URL+"/img/linen.jpg", items[0].ImageURL)
	assert.Equal(t, "Oak Frame Sofa", items[1].Name)
	assert.Equal(t, srv.URL+"/p/oak-sofa", items[1].Link)

	assert.Equal(t, "Sofa", items[0].Category)
	assert.Equal(t, domain.FurnitureDimensions{Width: 84, Depth: 36, Height: 34}, items[0].Dimensions)
	assert.Equal(t, string(catalog.SourceCategoryDefault), items[0].DimensionSource)
	assert.NotEmpty(t, items[0].Source)
	assert.Equal(t, 1, hits)
}

func TestScraperMockFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := search.NewScraper(testCatalog(t, srv.URL+"/"), search.Options{MockFallback: true, MaxResults: 20})
	q := search.Query{
		Theme:      "MODERN LIVING",
		RoomType:   "Living Room Furniture",
		Categories: []string{"Sofa", "Lamp", "Rug", "Desk", "Mirror"},
		PriceMin:   100,
		PriceMax:   900,
	}

	items, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.LessOrEqual(t, len(items), 20)

	assert.True(t, sort.SliceIsSorted(items, func(i, j int) bool { return items[i].Price < items[j].Price }))
	for _, it := range items {
		assert.GreaterOrEqual(t, it.Price, 100.0)
		assert.LessOrEqual(t, it.Price, 900.0)
		assert.NotEmpty(t, it.Link)
	}

	again, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, items, again)
}

func TestScraperNoFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := search.NewScraper(testCatalog(t, srv.URL+"/"), search.Options{})
	items, err := s.Search(context.Background(), search.Query{
		Theme: "MODERN LIVING", RoomType: "Living Room Furniture", Categories: []string{"Sofa"}, PriceMin: 0, PriceMax: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScraperCancelled(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := search.NewScraper(testCatalog(t, srv.URL+"/"), search.Options{})
	_, err := s.Search(ctx, search.Query{
		Theme: "MODERN LIVING", RoomType: "Living Room Furniture", Categories: []string{"Sofa", "Desk"}, PriceMin: 0, PriceMax: 10,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeCache struct {
	data map[string][]domain.FurnitureItem
	sets int
}

func (f *fakeCache) Get(_ context.Context, key string) ([]domain.FurnitureItem, error) {
	return f.data[key], nil
}

func (f *fakeCache) Set(_ context.Context, key string, items []domain.FurnitureItem) error {
	f.sets++
	f.data[key] = items
	return nil
}

type countingSearcher struct {
	calls int
}

func (c *countingSearcher) Search(_ context.Context, q search.Query) ([]domain.FurnitureItem, error) {
	c.calls++
	return []domain.FurnitureItem{{Name: "Desk", Price: q.PriceMin}}, nil
}

func TestCachedSearcher(t *testing.T) {
	inner := &countingSearcher{}
	cache := &fakeCache{data: map[string][]domain.FurnitureItem{}}
	s := search.NewCachedSearcher(inner, cache)

	q := search.Query{Theme: "BOHO ECLECTIC", RoomType: "Study Room", Categories: []string{"Desk", "Chair"}, PriceMin: 10, PriceMax: 100}
	for i := 0; i < 3; i++ {
		items, err := s.Search(context.Background(), q)
		require.NoError(t, err)
		require.Len(t, items, 1)
	}

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cache.sets)

	reordered := q
	reordered.Categories = []string{"Chair", "Desk"}
	assert.Equal(t, q.Key(), reordered.Key())
}
