package domain

import (
	"context"
	"time"
)

// PriceRange is the budget band used for furniture search, in USD
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewPriceRange validates min >= 0 and max > min
func NewPriceRange(min, max float64) (*PriceRange, error) {
	if min < 0 {
		return nil, NewValidationError("min_price", "must not be negative")
	}
	if max <= min {
		return nil, NewValidationError("max_price", "must be greater than min_price")
	}
	return &PriceRange{Min: min, Max: max}, nil
}

// Contains reports whether price falls inside the band, bounds included
func (p PriceRange) Contains(price float64) bool {
	return price >= p.Min && price <= p.Max
}

// FurnitureItem is a priced product returned by furniture search
type FurnitureItem struct {
	Name            string              `json:"name"`
	Link            string              `json:"link"`
	Price           float64             `json:"price"`
	ImageURL        string              `json:"image_url"`
	Dimensions      FurnitureDimensions `json:"dimensions"`
	DimensionSource string              `json:"dimension_source,omitempty"`
	Source          string              `json:"source"`
	Description     string              `json:"description,omitempty"`
	Category        string              `json:"category,omitempty"`
}

// GeneratedImage references an image produced for the session
type GeneratedImage struct {
	URL             string    `json:"url"`
	Prompt          string    `json:"prompt"`
	Model           string    `json:"model"`
	FurnitureLinks  []string  `json:"furniture_links"`
	DurationSeconds float64   `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// Session is the per-workflow record mutated by every step.
type Session struct {
	ID                 string               `json:"id"`
	RoomImageURL       string               `json:"room_image_url"`
	RoomType           string               `json:"room_type,omitempty"`
	Theme              string               `json:"theme,omitempty"`
	Room               *RoomSpec            `json:"room,omitempty"`
	Furniture          []FurnitureFootprint `json:"furniture"`
	TotalFootprintSqft float64              `json:"total_footprint_sqft"`
	PriceRange         *PriceRange          `json:"price_range,omitempty"`
	SearchResults      []FurnitureItem      `json:"search_results"`
	GeneratedImages    []GeneratedImage     `json:"generated_images"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// NewSession creates a session for an uploaded room image
func NewSession(id, roomImageURL string, now time.Time) *Session {
	return &Session{
		ID:              id,
		RoomImageURL:    roomImageURL,
		Furniture:       []FurnitureFootprint{},
		SearchResults:   []FurnitureItem{},
		GeneratedImages: []GeneratedImage{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Touch marks the session as active
func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now
}

// Expired reports whether the session has been idle longer than ttl.
// A non-positive ttl disables expiry.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(s.UpdatedAt) > ttl
}

// FloorAreaSqft returns the room floor area, or 0 when dimensions are unset
func (s *Session) FloorAreaSqft() float64 {
	if s.Room == nil {
		return 0
	}
	return s.Room.FloorAreaSqft
}

// AddFurniture appends footprints and updates the running total.
// Admission must be checked by the caller before committing.
func (s *Session) AddFurniture(items ...FurnitureFootprint) {
	s.Furniture = append(s.Furniture, items...)
	s.TotalFootprintSqft = Round2(s.TotalFootprintSqft + SumArea(items))
}

// RemoveFurniture removes the footprint at index and subtracts its area from the total
func (s *Session) RemoveFurniture(index int) (FurnitureFootprint, error) {
	if index < 0 || index >= len(s.Furniture) {
		return FurnitureFootprint{}, NewValidationError("index", "must be between 0 and %d", len(s.Furniture)-1)
	}

	removed := s.Furniture[index]
	s.Furniture = append(s.Furniture[:index:index], s.Furniture[index+1:]...)
	if len(s.Furniture) == 0 {
		s.TotalFootprintSqft = 0
	} else {
		s.TotalFootprintSqft = Round2(s.TotalFootprintSqft - removed.AreaSqft)
	}
	return removed, nil
}

// FurnitureCategories returns unique categories in selection order
func (s *Session) FurnitureCategories() []string {
	seen := make(map[string]struct{}, len(s.Furniture))
	var out []string
	for _, f := range s.Furniture {
		if _, ok := seen[f.Category]; ok {
			continue
		}
		seen[f.Category] = struct{}{}
		out = append(out, f.Category)
	}
	return out
}

// SumArea returns the combined area of the footprints
func SumArea(items []FurnitureFootprint) float64 {
	var total float64
	for _, it := range items {
		total += it.AreaSqft
	}
	return total
}

// SessionSummary is a compact view used for admin listings
type SessionSummary struct {
	ID             string    `json:"id"`
	RoomType       string    `json:"room_type,omitempty"`
	Theme          string    `json:"theme,omitempty"`
	FurnitureCount int       `json:"furniture_count"`
	StepsCompleted int       `json:"steps_completed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Summary returns the compact view of the session
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:             s.ID,
		RoomType:       s.RoomType,
		Theme:          s.Theme,
		FurnitureCount: len(s.Furniture),
		StepsCompleted: s.Progress().StepsCompleted,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// SessionRepository defines the interface for session storage.
// Get returns ErrSessionNotFound for unknown or expired sessions.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Session, error)
	PurgeExpired(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Locker serializes mutations of a single session.
// The returned unlock func must be called on every path.
type Locker interface {
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}
