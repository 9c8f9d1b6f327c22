// Package catalog holds the read-only furniture catalog: room types, their
// furniture categories and subtypes with dimensions, design themes and
// clearance recommendations.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Rrens/room-designer/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

// ErrNotFound is returned when a room type, category or subtype is unknown
var ErrNotFound = errors.New("furniture not found")

// Subtype is a concrete furniture variant with dimensions in inches
type Subtype struct {
	Name                       string `yaml:"name" json:"name"`
	domain.FurnitureDimensions `yaml:",inline"`
}

// Category groups subtypes under a furniture type such as "Sofa"
type Category struct {
	Name     string    `yaml:"name" json:"name"`
	Subtypes []Subtype `yaml:"subtypes" json:"subtypes"`
}

// Room is a room type with its furniture categories
type Room struct {
	Name       string             `yaml:"name" json:"name"`
	Clearances map[string]float64 `yaml:"clearances" json:"clearances,omitempty"`
	Categories []Category         `yaml:"categories" json:"categories"`
}

// Theme is a design theme with its style description and vendor websites
type Theme struct {
	Name     string   `yaml:"name" json:"name"`
	Style    string   `yaml:"style" json:"style"`
	Websites []string `yaml:"websites" json:"websites"`
}

type fallbackEntry struct {
	Category                   string `yaml:"category"`
	domain.FurnitureDimensions `yaml:",inline"`
}

type document struct {
	Rooms              []Room                     `yaml:"rooms"`
	DefaultClearances  map[string]float64         `yaml:"default_clearances"`
	Themes             []Theme                    `yaml:"themes"`
	FallbackDimensions []fallbackEntry            `yaml:"fallback_dimensions"`
	GenericDimensions  domain.FurnitureDimensions `yaml:"generic_dimensions"`
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	doc    document
	rooms  map[string]*Room
	themes map[string]*Theme
}

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Parse(defaultData)
}

// Load reads a catalog from a YAML file, or returns the embedded default when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		doc:    doc,
		rooms:  make(map[string]*Room, len(doc.Rooms)),
		themes: make(map[string]*Theme, len(doc.Themes)),
	}

	for i := range c.doc.Rooms {
		r := &c.doc.Rooms[i]
		if r.Name == "" {
			return nil, fmt.Errorf("catalog room %d has no name", i)
		}
		for _, cat := range r.Categories {
			for _, st := range cat.Subtypes {
				if !st.Valid() {
					return nil, fmt.Errorf("catalog entry %s > %s > %s has invalid dimensions", r.Name, cat.Name, st.Name)
				}
			}
		}
		c.rooms[r.Name] = r
	}
	for i := range c.doc.Themes {
		t := &c.doc.Themes[i]
		c.themes[strings.ToUpper(t.Name)] = t
	}

	if len(c.rooms) == 0 {
		return nil, errors.New("catalog has no room types")
	}
	return c, nil
}

// RoomTypes returns room type names in catalog order
func (c *Catalog) RoomTypes() []string {
	names := make([]string, 0, len(c.doc.Rooms))
	for _, r := range c.doc.Rooms {
		names = append(names, r.Name)
	}
	return names
}

// Room returns a room type by exact name
func (c *Catalog) Room(name string) (*Room, bool) {
	r, ok := c.rooms[name]
	return r, ok
}

// Categories returns the furniture category names of a room type
func (c *Catalog) Categories(room string) ([]string, error) {
	r, ok := c.rooms[room]
	if !ok {
		return nil, fmt.Errorf("%w: room type %q", ErrNotFound, room)
	}
	names := make([]string, 0, len(r.Categories))
	for _, cat := range r.Categories {
		names = append(names, cat.Name)
	}
	return names, nil
}

// Subtypes returns the subtypes of a category within a room type
func (c *Catalog) Subtypes(room, category string) ([]Subtype, error) {
	cat, err := c.category(room, category)
	if err != nil {
		return nil, err
	}
	return cat.Subtypes, nil
}

func (c *Catalog) category(room, category string) (*Category, error) {
	r, ok := c.rooms[room]
	if !ok {
		return nil, fmt.Errorf("%w: room type %q", ErrNotFound, room)
	}
	for i := range r.Categories {
		if r.Categories[i].Name == category {
			return &r.Categories[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s - %s", ErrNotFound, room, category)
}

// Lookup returns the dimensions of an exact (room, category, subtype) entry
func (c *Catalog) Lookup(room, category, subtype string) (domain.FurnitureDimensions, error) {
	cat, err := c.category(room, category)
	if err != nil {
		return domain.FurnitureDimensions{}, err
	}
	for _, st := range cat.Subtypes {
		if st.Name == subtype {
			return st.FurnitureDimensions, nil
		}
	}
	return domain.FurnitureDimensions{}, fmt.Errorf("%w: %s - %s", ErrNotFound, category, subtype)
}

// Footprint resolves an exact catalog entry into a furniture footprint
func (c *Catalog) Footprint(room, category, subtype string) (domain.FurnitureFootprint, error) {
	dims, err := c.Lookup(room, category, subtype)
	if err != nil {
		return domain.FurnitureFootprint{}, err
	}
	return domain.NewFootprint(category, subtype, dims), nil
}

// Themes returns all themes in catalog order
func (c *Catalog) Themes() []Theme {
	return c.doc.Themes
}

// Theme looks up a theme case-insensitively
func (c *Catalog) Theme(name string) (*Theme, bool) {
	t, ok := c.themes[strings.ToUpper(strings.TrimSpace(name))]
	return t, ok
}

// Clearances returns recommended clearances in feet for a room type
func (c *Catalog) Clearances(room string) map[string]float64 {
	if r, ok := c.rooms[room]; ok && len(r.Clearances) > 0 {
		return r.Clearances
	}
	return c.doc.DefaultClearances
}
