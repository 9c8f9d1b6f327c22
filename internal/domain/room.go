package domain

import "math"

// MaxRoomDimensionFeet bounds every room dimension.
const MaxRoomDimensionFeet = 1000.0

// FurnitureDimensions holds catalog dimensions in inches
type FurnitureDimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Depth  float64 `json:"depth" yaml:"depth"`
	Height float64 `json:"height" yaml:"height"`
}

// FootprintSqft returns width*depth converted from square inches to square feet.
func (d FurnitureDimensions) FootprintSqft() float64 {
	return (d.Width * d.Depth) / 144.0
}

// Valid reports whether all dimensions are finite and non-negative
func (d FurnitureDimensions) Valid() bool {
	for _, v := range []float64{d.Width, d.Depth, d.Height} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FurnitureFootprint is one entry of a session's furniture list.
// AreaSqft is computed when the entry is built and never derived again on read.
type FurnitureFootprint struct {
	Category   string              `json:"category"`
	Subtype    string              `json:"subtype"`
	Dimensions FurnitureDimensions `json:"dimensions"`
	AreaSqft   float64             `json:"area_sqft"`
}

// NewFootprint builds a footprint and caches its area
func NewFootprint(category, subtype string, dims FurnitureDimensions) FurnitureFootprint {
	return FurnitureFootprint{
		Category:   category,
		Subtype:    subtype,
		Dimensions: dims,
		AreaSqft:   Round2(dims.FootprintSqft()),
	}
}

// RoomSpec holds room dimensions in feet along with derived area and volume.
// A nil *RoomSpec on a session means dimensions were never set.
type RoomSpec struct {
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	FloorAreaSqft float64 `json:"floor_area_sqft"`
	VolumeCuft    float64 `json:"volume_cuft"`
}

// NewRoomSpec validates the dimensions and computes derived fields
func NewRoomSpec(length, width, height float64) (*RoomSpec, error) {
	r := &RoomSpec{}
	if err := r.SetDimensions(length, width, height); err != nil {
		return nil, err
	}
	return r, nil
}

// SetDimensions replaces all dimensions and recomputes derived fields.
// The room is left untouched when validation fails.
func (r *RoomSpec) SetDimensions(length, width, height float64) error {
	for _, d := range []struct {
		name  string
		value float64
	}{{"length", length}, {"width", width}, {"height", height}} {
		if math.IsNaN(d.value) || d.value <= 0 || d.value > MaxRoomDimensionFeet {
			return NewValidationError(d.name, "must be greater than 0 and at most %.0f feet", MaxRoomDimensionFeet)
		}
	}

	r.Length = length
	r.Width = width
	r.Height = height
	r.FloorAreaSqft = length * width
	r.VolumeCuft = length * width * height
	return nil
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
