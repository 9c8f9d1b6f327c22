package capacity

import "github.com/Rrens/room-designer/internal/domain"

// Tier is a fit classification band
type Tier string

const (
	TierCrowded   Tier = "crowded"
	TierTooMuch   Tier = "too_much"
	TierGood      Tier = "good"
	TierExcellent Tier = "excellent"
	TierSpacious  Tier = "spacious"
)

// FitVerdict is the result of classifying room occupancy
type FitVerdict struct {
	Fits                bool    `json:"fits"`
	TotalSqft           float64 `json:"total_furniture_sqft"`
	RoomSqft            float64 `json:"room_sqft"`
	UsagePercentage     float64 `json:"usage_percentage"`
	RemainingPercentage float64 `json:"remaining_percentage"`
	MaxPercentage       float64 `json:"max_allowed_percentage"`
	Tier                Tier    `json:"tier"`
	Label               string  `json:"tier_label"`
	Warning             string  `json:"warning,omitempty"`
	Recommendation      string  `json:"recommendation"`
}

type band struct {
	above          float64
	tier           Tier
	label          string
	warning        string
	recommendation string
}

// Evaluated high to low; first band whose lower bound is exceeded wins.
var bands = []band{
	{70, TierCrowded, "crowded / barely fits", "Room is very crowded. Consider removing furniture.", "Remove at least one large item for better circulation."},
	{60, TierTooMuch, "too much furniture, remove items", "Too much furniture. Please remove items to proceed.", "Remove furniture until usage is below 60%."},
	{50, TierGood, "good placement", "", "Optimal furniture arrangement."},
	{40, TierExcellent, "excellent, plenty of space", "", "Great balance of furniture and open space."},
}

var spacious = band{0, TierSpacious, "very spacious", "", "Consider adding accent pieces."}

// ClassifyFit computes usage of roomSqft by totalSqft and maps it to a tier.
//
// Usage above 70% is reported as fitting with a crowding warning while the
// 60-70% band is reported as not fitting. Both behaviours are part of the
// published contract.
func ClassifyFit(totalSqft, roomSqft, maxPercentage float64) (FitVerdict, error) {
	if err := validate(roomSqft, maxPercentage, totalSqft); err != nil {
		return FitVerdict{}, err
	}

	usage := totalSqft / roomSqft * 100
	b := spacious
	for _, candidate := range bands {
		if usage > candidate.above {
			b = candidate
			break
		}
	}

	fits := usage <= maxPercentage
	switch b.tier {
	case TierCrowded:
		fits = true
	case TierTooMuch:
		fits = false
	}

	return FitVerdict{
		Fits:                fits,
		TotalSqft:           domain.Round2(totalSqft),
		RoomSqft:            domain.Round2(roomSqft),
		UsagePercentage:     domain.Round2(usage),
		RemainingPercentage: domain.Round2(100 - usage),
		MaxPercentage:       maxPercentage,
		Tier:                b.tier,
		Label:               b.label,
		Warning:             b.warning,
		Recommendation:      b.recommendation,
	}, nil
}
