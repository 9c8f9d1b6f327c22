package search

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"net/url"
	"strings"

	"github.com/Rrens/room-designer/internal/catalog"
	"github.com/Rrens/room-designer/internal/domain"
)

var (
	mockStyles    = []string{"Modern", "Contemporary", "Classic", "Minimalist", "Scandinavian", "Industrial"}
	mockMaterials = []string{"Oak", "Walnut", "Leather", "Velvet", "Linen", "Teak", "Ash Wood"}
	mockWebsites  = []string{"https://kavehome.com/", "https://ethnicraft.com/"}
)

// MockGenerator produces plausible catalog-sized items when no website could be scraped.
// Output is deterministic for a given query.
type MockGenerator struct {
	catalog *catalog.Catalog
}

// NewMockGenerator creates a generator using catalog dimensions
func NewMockGenerator(cat *catalog.Catalog) *MockGenerator {
	return &MockGenerator{catalog: cat}
}

// Generate returns 4 to 6 items per category spread across the price band
func (g *MockGenerator) Generate(q Query, websites []string) []domain.FurnitureItem {
	if len(websites) == 0 {
		websites = mockWebsites
	}

	h := fnv.New64a()
	h.Write([]byte(q.Key()))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	spread := q.PriceMax - q.PriceMin
	var items []domain.FurnitureItem

	for _, category := range q.Categories {
		res := g.catalog.Resolve(q.RoomType, category, "")
		count := 4 + rng.Intn(3)

		for i := 0; i < count; i++ {
			style := mockStyles[rng.Intn(len(mockStyles))]
			material := mockMaterials[rng.Intn(len(mockMaterials))]
			website := websites[rng.Intn(len(websites))]
			source := domainOf(website)

			price := q.PriceMin + spread/float64(count)*float64(i) + (rng.Float64()*0.2-0.1)*spread
			price = math.Max(q.PriceMin, math.Min(q.PriceMax, price))

			name := fmt.Sprintf("%s %s %s", style, material, category)
			slug := strings.ReplaceAll(strings.ToLower(category), " ", "-")

			items = append(items, domain.FurnitureItem{
				Name:            name,
				Link:            fmt.Sprintf("%s/products/%s-%d", strings.TrimRight(website, "/"), slug, 1000+rng.Intn(9000)),
				Price:           domain.Round2(price),
				ImageURL:        "https://via.placeholder.com/400x300/e8e8e8/333333?text=" + url.QueryEscape(category),
				Dimensions:      res.Dimensions,
				DimensionSource: string(res.Source),
				Source:          source,
				Description:     fmt.Sprintf("%s - Premium quality %s furniture with %s design from %s", name, strings.ToLower(material), strings.ToLower(style), source),
				Category:        category,
			})
		}
	}
	return items
}
