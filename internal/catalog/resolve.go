package catalog

import (
	"strings"

	"github.com/Rrens/room-designer/internal/domain"
)

// Source tags how confidently a Resolution matched the catalog
type Source string

const (
	SourceExact           Source = "exact"
	SourceCategoryDefault Source = "category_default"
	SourceGenericFallback Source = "generic_fallback"
)

// Resolution is the outcome of Resolve
type Resolution struct {
	Dimensions domain.FurnitureDimensions `json:"dimensions"`
	Source     Source                     `json:"source"`
	Subtype    string                     `json:"subtype,omitempty"`
}

// Resolve never fails. It tries, in order: the exact subtype, the first
// subtype of the category, the standard dimensions table (exact then
// case-insensitive partial match on category) and finally a generic size.
func (c *Catalog) Resolve(room, category, subtype string) Resolution {
	if cat, err := c.category(room, category); err == nil && len(cat.Subtypes) > 0 {
		if subtype != "" {
			for _, st := range cat.Subtypes {
				if st.Name == subtype {
					return Resolution{Dimensions: st.FurnitureDimensions, Source: SourceExact, Subtype: st.Name}
				}
			}
		}
		first := cat.Subtypes[0]
		return Resolution{Dimensions: first.FurnitureDimensions, Source: SourceCategoryDefault, Subtype: first.Name}
	}

	return Resolution{Dimensions: c.fallbackDimensions(category), Source: SourceGenericFallback}
}

func (c *Catalog) fallbackDimensions(category string) domain.FurnitureDimensions {
	for _, f := range c.doc.FallbackDimensions {
		if f.Category == category {
			return f.FurnitureDimensions
		}
	}

	lower := strings.ToLower(category)
	for _, f := range c.doc.FallbackDimensions {
		if strings.Contains(lower, strings.ToLower(f.Category)) {
			return f.FurnitureDimensions
		}
	}

	return c.doc.GenericDimensions
}
