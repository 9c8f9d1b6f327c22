// Package search finds priced furniture on the vendor websites of a theme.
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/Rrens/room-designer/internal/domain"
)

// Query describes one furniture search
type Query struct {
	Theme      string
	RoomType   string
	Categories []string
	PriceMin   float64
	PriceMax   float64
}

// Key returns a stable cache key for the query
func (q Query) Key() string {
	cats := append([]string(nil), q.Categories...)
	sort.Strings(cats)
	raw := fmt.Sprintf("%s|%s|%s|%.2f|%.2f",
		strings.ToUpper(q.Theme), q.RoomType, strings.Join(cats, ","), q.PriceMin, q.PriceMax)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Searcher returns furniture sorted by ascending price
type Searcher interface {
	Search(ctx context.Context, q Query) ([]domain.FurnitureItem, error)
}

// finalize keeps in-range items, sorts them by price and caps the count
func finalize(items []domain.FurnitureItem, q Query, max int) []domain.FurnitureItem {
	band := domain.PriceRange{Min: q.PriceMin, Max: q.PriceMax}

	out := make([]domain.FurnitureItem, 0, len(items))
	for _, it := range items {
		if band.Contains(it.Price) {
			out = append(out, it)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
