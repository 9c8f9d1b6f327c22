// Package capacity decides whether furniture may be added to a room and
// classifies how crowded the room is. Every function is pure.
package capacity

import (
	"errors"
	"fmt"
	"math"

	"github.com/Rrens/room-designer/internal/domain"
)

// DefaultMaxPercentage is the occupancy ceiling used when none is configured.
const DefaultMaxPercentage = 60.0

// ErrInvalidInput is returned for non-positive room areas, negative footprints
// or a non-positive ceiling.
var ErrInvalidInput = errors.New("invalid capacity input")

// AdmissionResult is the outcome of an admission check
type AdmissionResult struct {
	Admitted            bool    `json:"admitted"`
	CurrentTotalSqft    float64 `json:"current_total_sqft"`
	CandidateSqft       float64 `json:"candidate_sqft"`
	ProjectedTotalSqft  float64 `json:"projected_total_sqft"`
	RoomSqft            float64 `json:"room_sqft"`
	CurrentPercentage   float64 `json:"current_percentage"`
	ProjectedPercentage float64 `json:"projected_percentage"`
	MaxPercentage       float64 `json:"max_percentage"`
}

// Err returns an *ExceededError when the candidate was not admitted
func (r AdmissionResult) Err() error {
	if r.Admitted {
		return nil
	}
	return &ExceededError{
		CurrentPercentage:   domain.Round2(r.CurrentPercentage),
		ProjectedPercentage: domain.Round2(r.ProjectedPercentage),
		MaxPercentage:       r.MaxPercentage,
	}
}

// ExceededError reports a rejected admission.
type ExceededError struct {
	CurrentPercentage   float64
	ProjectedPercentage float64
	MaxPercentage       float64
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("Room capacity exceeded. Usage would be %.1f%%. Maximum: %g%%",
		e.ProjectedPercentage, e.MaxPercentage)
}

// CheckAdmission reports whether adding candidateSqft to currentSqft keeps
// occupancy of roomSqft at or below maxPercentage. A batch is checked by
// passing the combined area of all its items as candidateSqft.
func CheckAdmission(currentSqft, candidateSqft, roomSqft, maxPercentage float64) (AdmissionResult, error) {
	if err := validate(roomSqft, maxPercentage, currentSqft, candidateSqft); err != nil {
		return AdmissionResult{}, err
	}

	projected := currentSqft + candidateSqft
	pct := projected / roomSqft * 100

	return AdmissionResult{
		Admitted:            pct <= maxPercentage,
		CurrentTotalSqft:    currentSqft,
		CandidateSqft:       candidateSqft,
		ProjectedTotalSqft:  projected,
		RoomSqft:            roomSqft,
		CurrentPercentage:   currentSqft / roomSqft * 100,
		ProjectedPercentage: pct,
		MaxPercentage:       maxPercentage,
	}, nil
}

func validate(roomSqft, maxPercentage float64, areas ...float64) error {
	if !finite(roomSqft) || roomSqft <= 0 {
		return fmt.Errorf("%w: room area must be positive, got %v", ErrInvalidInput, roomSqft)
	}
	if !finite(maxPercentage) || maxPercentage <= 0 {
		return fmt.Errorf("%w: max percentage must be positive, got %v", ErrInvalidInput, maxPercentage)
	}
	for _, a := range areas {
		if !finite(a) || a < 0 {
			return fmt.Errorf("%w: furniture area must not be negative, got %v", ErrInvalidInput, a)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
