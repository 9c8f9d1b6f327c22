package service

import (
	"context"
	"strings"

	"github.com/Rrens/room-designer/internal/capacity"
	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/events"
)

// FurnitureRef names a catalog entry within the session's room type
type FurnitureRef struct {
	Category string `json:"type" validate:"required"`
	Subtype  string `json:"subtype" validate:"required"`
}

// FurnitureTotals summarizes the furniture list after a change
type FurnitureTotals struct {
	TotalItems      int     `json:"total_items"`
	TotalSqft       float64 `json:"total_sqft"`
	UsagePercentage float64 `json:"usage_percentage"`
}

type AddFurnitureResult struct {
	Item domain.FurnitureFootprint `json:"item"`
	FurnitureTotals
}

type BatchResult struct {
	Added     int                         `json:"added_count"`
	Furniture []domain.FurnitureFootprint `json:"furniture_list"`
	FurnitureTotals
}

type RemoveFurnitureResult struct {
	Removed domain.FurnitureFootprint `json:"removed"`
	FurnitureTotals
}

// FurnitureSummary is the current furniture list with occupancy figures
type FurnitureSummary struct {
	Furniture           []domain.FurnitureFootprint `json:"furniture_list"`
	TotalItems          int                         `json:"total_items"`
	TotalSqft           float64                     `json:"total_sqft"`
	RoomSqft            float64                     `json:"room_sqft"`
	UsagePercentage     float64                     `json:"usage_percentage"`
	RemainingPercentage float64                     `json:"remaining_percentage"`
	CanAddMore          bool                        `json:"can_add_more"`
}

type FitCheckResult struct {
	capacity.FitVerdict
	Furniture  []domain.FurnitureFootprint `json:"furniture_items"`
	Clearances map[string]float64          `json:"clearance_recommendations"`
}

// AddFurniture adds one catalog item after checking room capacity
func (s *DesignService) AddFurniture(ctx context.Context, id string, ref FurnitureRef) (*AddFurnitureResult, error) {
	var item domain.FurnitureFootprint
	sess, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		if err := sess.Require(domain.StepRoomType, domain.StepTheme, domain.StepDimensions); err != nil {
			return err
		}

		fp, err := s.catalog.Footprint(sess.RoomType, ref.Category, ref.Subtype)
		if err != nil {
			return err
		}
		if err := s.admit(sess, fp.AreaSqft); err != nil {
			return err
		}

		sess.AddFurniture(fp)
		item = fp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.FurnitureAdded, id, map[string]any{
		"category":  item.Category,
		"subtype":   item.Subtype,
		"area_sqft": item.AreaSqft,
	})
	return &AddFurnitureResult{Item: item, FurnitureTotals: totals(sess)}, nil
}

// AddFurnitureBatch adds all items or none. Capacity is checked once
// against the combined area of the batch.
func (s *DesignService) AddFurnitureBatch(ctx context.Context, id string, refs []FurnitureRef) (*BatchResult, error) {
	if len(refs) == 0 {
		return nil, domain.NewValidationError("furniture_list", "must contain at least one item")
	}

	var added int
	sess, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		if err := sess.Require(domain.StepRoomType, domain.StepTheme, domain.StepDimensions); err != nil {
			return err
		}

		items := make([]domain.FurnitureFootprint, 0, len(refs))
		for i, ref := range refs {
			if strings.TrimSpace(ref.Category) == "" || strings.TrimSpace(ref.Subtype) == "" {
				return domain.NewValidationError("furniture_list", "item %d must have 'type' and 'subtype'", i)
			}
			fp, err := s.catalog.Footprint(sess.RoomType, ref.Category, ref.Subtype)
			if err != nil {
				return err
			}
			items = append(items, fp)
		}

		if err := s.admit(sess, domain.SumArea(items)); err != nil {
			return err
		}

		sess.AddFurniture(items...)
		added = len(items)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.FurnitureAdded, id, map[string]any{"count": added, "total_sqft": sess.TotalFootprintSqft})
	return &BatchResult{
		Added:           added,
		Furniture:       sess.Furniture,
		FurnitureTotals: totals(sess),
	}, nil
}

// RemoveFurniture removes the item at index from the furniture list
func (s *DesignService) RemoveFurniture(ctx context.Context, id string, index int) (*RemoveFurnitureResult, error) {
	var removed domain.FurnitureFootprint
	sess, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		if err := sess.Require(domain.StepFurniture); err != nil {
			return err
		}
		r, err := sess.RemoveFurniture(index)
		if err != nil {
			return err
		}
		removed = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.FurnitureRemoved, id, map[string]any{"index": index, "subtype": removed.Subtype})
	return &RemoveFurnitureResult{Removed: removed, FurnitureTotals: totals(sess)}, nil
}

// FurnitureList returns the furniture list and occupancy summary
func (s *DesignService) FurnitureList(ctx context.Context, id string) (*FurnitureSummary, error) {
	sess, err := s.mutate(ctx, id, func(*domain.Session) error { return nil })
	if err != nil {
		return nil, err
	}

	pct := usage(sess)
	return &FurnitureSummary{
		Furniture:           sess.Furniture,
		TotalItems:          len(sess.Furniture),
		TotalSqft:           domain.Round2(sess.TotalFootprintSqft),
		RoomSqft:            domain.Round2(sess.FloorAreaSqft()),
		UsagePercentage:     domain.Round2(pct),
		RemainingPercentage: domain.Round2(100 - pct),
		CanAddMore:          pct < s.maxPercentage,
	}, nil
}

// FitCheck classifies how well the selected furniture fits the room
func (s *DesignService) FitCheck(ctx context.Context, id string) (*FitCheckResult, error) {
	var verdict capacity.FitVerdict
	sess, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		if err := sess.Require(domain.StepDimensions, domain.StepFurniture); err != nil {
			return err
		}
		v, err := capacity.ClassifyFit(sess.TotalFootprintSqft, sess.FloorAreaSqft(), s.maxPercentage)
		if err != nil {
			return err
		}
		verdict = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &FitCheckResult{
		FitVerdict: verdict,
		Furniture:  sess.Furniture,
		Clearances: s.catalog.Clearances(sess.RoomType),
	}, nil
}

func (s *DesignService) admit(sess *domain.Session, candidateSqft float64) error {
	res, err := capacity.CheckAdmission(sess.TotalFootprintSqft, candidateSqft, sess.FloorAreaSqft(), s.maxPercentage)
	if err != nil {
		return err
	}
	return res.Err()
}

func totals(sess *domain.Session) FurnitureTotals {
	return FurnitureTotals{
		TotalItems:      len(sess.Furniture),
		TotalSqft:       domain.Round2(sess.TotalFootprintSqft),
		UsagePercentage: domain.Round2(usage(sess)),
	}
}
